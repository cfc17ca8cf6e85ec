package session

import "zenchat/internal/models"

type seedThread struct {
	title     string
	dateLabel string
	messages  []seedMessage
}

type seedMessage struct {
	role    models.Role
	content string
}

// The first entry becomes thread 1 and is active at startup.
var seedThreads = []seedThread{
	{
		title:     "Morning Reflection",
		dateLabel: "Today",
		messages: []seedMessage{
			{models.RoleUser, "Hello, I'd like to practice mindfulness. Can you guide me?"},
			{models.RoleAssistant, "Of course. Mindfulness is about being present in the moment. Let's start with a simple breathing exercise. Find a comfortable position and focus on your breath for a few minutes. Notice the sensation of air flowing in and out."},
			{models.RoleUser, "That was helpful. How can I incorporate mindfulness into my daily routine?"},
			{models.RoleAssistant, "I'm glad it helped. To incorporate mindfulness into your daily life, try these simple practices:\n\n1. Start your day with a 5-minute meditation\n2. Take mindful breaks between tasks\n3. Practice mindful eating by savoring each bite\n4. End your day with a gratitude reflection\n\nRemember, consistency is more important than duration."},
		},
	},
	{title: "Creative Ideas", dateLabel: "Yesterday"},
	{title: "Work Planning", dateLabel: "Yesterday"},
	{title: "Travel Inspiration", dateLabel: "Mar 2"},
	{title: "Book Recommendations", dateLabel: "Feb 28"},
}

// seed fills an empty store with the starter threads, keeping thread 1 at the front
func (m *Manager) seed() error {
	threads := make([]models.Thread, len(seedThreads))
	for i, st := range seedThreads {
		t := models.Thread{
			ID:        i + 1,
			Title:     st.title,
			DateLabel: st.dateLabel,
			Messages:  []models.Message{},
		}
		for _, sm := range st.messages {
			t.Messages = append(t.Messages, m.newMessage(sm.role, sm.content))
		}
		threads[i] = t
	}

	for i := len(threads) - 1; i >= 0; i-- {
		if err := m.store.Prepend(threads[i]); err != nil {
			return err
		}
	}
	return nil
}
