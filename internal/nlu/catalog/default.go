package catalog

import "atom-nlu/internal/models"

// DefaultDefinitions is the built-in catalog used when no external catalog
// file is configured or the configured one cannot be loaded. Pattern order
// is significant: the matcher takes the first substring match, so narrower
// phrases come before broader ones within and across definitions.
func DefaultDefinitions() []models.IntentDefinition {
	return []models.IntentDefinition{
		{
			Name:        "create_task",
			Description: "Create a task in the user's task manager",
			Patterns:    []string{"create a task", "add a task", "new task", "make a task", "add to my todo"},
			Examples: []string{
				"Create a task for the quarterly report",
				"Add a task to review the design doc by Friday",
			},
			EntityTypes: []string{"task_name", "date", "priority"},
			Action:      "task.create",
		},
		{
			Name:        "list_tasks",
			Description: "List the user's open tasks",
			Patterns:    []string{"show my tasks", "list my tasks", "list tasks", "what are my tasks", "view tasks"},
			Examples:    []string{"Show my tasks for today"},
			EntityTypes: []string{"date", "priority"},
			Action:      "task.list",
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as done",
			Patterns:    []string{"complete the task", "mark as done", "finish the task", "check off"},
			Examples:    []string{"Mark as done the task for the launch checklist"},
			EntityTypes: []string{"task_name"},
			Action:      "task.complete",
		},
		{
			Name:        "schedule_meeting",
			Description: "Schedule a calendar event with participants",
			Patterns:    []string{"schedule a meeting", "set up a meeting", "book a meeting", "schedule a call", "arrange a call"},
			Examples: []string{
				"Schedule a meeting with Sarah Chen tomorrow at 2pm",
				"Book a meeting about the roadmap from 3pm to 4pm",
			},
			EntityTypes:          []string{"event_title", "date", "time", "duration", "participants", "location"},
			Action:               "calendar.schedule",
			WorkflowID:           "wf-calendar-schedule",
			RequiresConfirmation: true,
			Platforms:            []string{"calendar"},
		},
		{
			Name:                 "cancel_meeting",
			Description:          "Cancel an existing calendar event",
			Patterns:             []string{"cancel the meeting", "cancel my meeting", "call off the meeting"},
			EntityTypes:          []string{"event_title", "date", "time"},
			Action:               "calendar.cancel",
			RequiresConfirmation: true,
			Platforms:            []string{"calendar"},
		},
		{
			Name:        "set_reminder",
			Description: "Set a reminder for a topic at a time",
			Patterns:    []string{"remind me", "set a reminder"},
			Examples:    []string{"Remind me about the standup tomorrow at 9am"},
			EntityTypes: []string{"topic", "date", "time"},
			Action:      "reminder.set",
		},
		{
			Name:        "send_message",
			Description: "Send a chat message to a person or channel",
			Patterns:    []string{"send a message", "send a slack message", "message the team", "ping"},
			Examples:    []string{"Send a message to Alex about the deploy"},
			EntityTypes: []string{"recipient", "channel", "topic"},
			Action:      "chat.send",
			Platforms:   []string{"slack"},
		},
		{
			Name:        "send_email",
			Description: "Compose and send an email",
			Patterns:    []string{"send an email", "compose an email", "email"},
			Examples:    []string{"Send an email to devon@example.com about the contract"},
			EntityTypes: []string{"recipient", "topic"},
			Action:      "mail.send",
			Platforms:   []string{"gmail"},
		},
		{
			Name:        "create_note",
			Description: "Capture a note",
			Patterns:    []string{"take a note", "create a note", "jot down"},
			EntityTypes: []string{"topic"},
			Action:      "note.create",
			Platforms:   []string{"notion"},
		},
		{
			Name:        "search_notes",
			Description: "Search previously captured notes",
			Patterns:    []string{"search my notes", "find notes", "look up notes"},
			EntityTypes: []string{"topic"},
			Action:      "note.search",
			Platforms:   []string{"notion"},
		},
		{
			Name:          "sync_tasks",
			Description:   "Mirror tasks between a task manager and a chat tool",
			Patterns:      []string{"sync tasks", "sync my tasks", "keep tasks in sync"},
			Examples:      []string{"Sync tasks across asana and slack"},
			EntityTypes:   []string{"task_name"},
			Action:        "integration.sync_tasks",
			WorkflowID:    "wf-task-sync",
			Platforms:     []string{"asana", "slack"},
			CrossPlatform: true,
			DataIntegration: &models.DataIntegrationPlan{
				SourcePlatforms: []string{"asana"},
				TargetPlatforms: []string{"slack"},
				SyncOperation:   models.SyncSync,
				EntityMapping:   map[string]string{"task.name": "message.text", "task.due": "message.attachment.due"},
				TransformationRules: []string{
					"task_to_message",
					"due_date_to_local_time",
				},
			},
		},
		{
			Name:          "email_to_task",
			Description:   "Turn an email into a task",
			Patterns:      []string{"turn this email into a task", "create a task from this email", "email to task"},
			EntityTypes:   []string{"task_name", "date"},
			Action:        "integration.email_to_task",
			WorkflowID:    "wf-email-to-task",
			Platforms:     []string{"gmail", "asana"},
			CrossPlatform: true,
			DataIntegration: &models.DataIntegrationPlan{
				SourcePlatforms:     []string{"gmail"},
				TargetPlatforms:     []string{"asana"},
				SyncOperation:       models.SyncCreate,
				EntityMapping:       map[string]string{"email.subject": "task.name", "email.body": "task.notes"},
				TransformationRules: []string{"strip_signature"},
			},
		},
		{
			Name:          "cross_platform_sync",
			Description:   "Synchronize items across every connected platform",
			Patterns:      []string{"sync all platforms", "sync everything", "sync across all platforms"},
			EntityTypes:   []string{"topic"},
			Action:        "integration.sync_all",
			WorkflowID:    "wf-sync-all",
			Platforms:     []string{"asana", "trello", "notion"},
			CrossPlatform: true,
			DataIntegration: &models.DataIntegrationPlan{
				SourcePlatforms: []string{"asana", "trello"},
				TargetPlatforms: []string{"notion"},
				SyncOperation:   models.SyncSync,
				EntityMapping:   map[string]string{"task.name": "page.title"},
			},
		},
	}
}
