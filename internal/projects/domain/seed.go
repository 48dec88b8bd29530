package domain

import "time"

// SeedSnapshot returns the starter portfolio used when the storage blob is
// missing or unreadable: three example projects and an empty feedback map.
func SeedSnapshot() Snapshot {
	now := FormatTimestamp(time.Now())
	return Snapshot{
		Projects: []Project{
			{
				ID:   "project-pal",
				Name: "Project Pal",
				Description: "Browser extension that helps teams track projects, capture context, " +
					"and surface next steps during daily work.",
				LastUpdated: now,
				TechStack:   []string{"React", "TypeScript", "Vite", "Tailwind"},
				UserStories: []string{
					"As a user, I can create a new workspace in one click.",
					"As a contributor, I can see project health at a glance.",
				},
			},
			{
				ID:   "impact-hub",
				Name: "Impact Hub",
				Description: "Internal platform that centralizes portfolio projects, timelines, " +
					"and outcomes to help leadership make faster decisions.",
				LastUpdated: now,
				TechStack:   []string{"Svelte", "Node.js", "Postgres"},
				UserStories: []string{
					"As a team lead, I can assign tasks from a project board.",
					"As a user, I can filter tasks by status and owner.",
				},
			},
			{
				ID:   "storycraft",
				Name: "StoryCraft",
				Description: "Program storytelling toolkit that turns qualitative feedback into " +
					"shareable narratives and reports.",
				LastUpdated: now,
				TechStack:   []string{"Vue", "Pinia", "Firebase"},
				UserStories: []string{
					"As a user, I can invite teammates via email.",
					"As a user, I can receive notifications for updates.",
				},
			},
		},
		Feedback: FeedbackMap{},
	}
}
