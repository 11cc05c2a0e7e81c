package generative

// resolvedIntentSchema is the JSON Schema every classifier response must
// satisfy before it crosses into the typed domain model. Anything failing
// validation is treated as a malformed response, never as a crash.
const resolvedIntentSchema = `{
  "type": "object",
  "required": ["intent", "confidence"],
  "properties": {
    "intent": {"type": "string", "minLength": 1},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "entities": {"type": "object"},
    "action": {"type": "string"},
    "parameters": {"type": "object"},
    "workflowId": {"type": "string"},
    "platforms": {"type": "array", "items": {"type": "string"}},
    "crossPlatformAction": {"type": "boolean"},
    "dataIntegration": {
      "type": "object",
      "required": ["sourcePlatforms", "targetPlatforms", "syncOperation"],
      "properties": {
        "sourcePlatforms": {"type": "array", "items": {"type": "string"}},
        "targetPlatforms": {"type": "array", "items": {"type": "string"}},
        "syncOperation": {"enum": ["create", "update", "delete", "read", "sync"]},
        "entityMapping": {"type": "object"},
        "transformationRules": {"type": "array", "items": {"type": "string"}}
      }
    },
    "requiresConfirmation": {"type": "boolean"},
    "suggestedFollowUps": {"type": "array", "items": {"type": "string"}}
  }
}`
