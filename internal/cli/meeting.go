package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vcabel/safework/internal/model"
)

// ListMeetings prints the kick-off meetings, newest first.
func (a *App) ListMeetings(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	items := a.data.Meetings()
	if len(items) == 0 {
		printlnFn("No kick-off meetings yet.")
		return nil
	}
	for _, m := range items {
		printlnFn(fmt.Sprintf("%s  %-10s %-20s %-14s %d attendees",
			shortID(m.ID), m.Date, clip(m.Project, 20), m.Department, len(m.Attendees)))
	}
	return nil
}

// NewMeeting records a kick-off briefing: project, attendees, the topics
// discussed (preselected from the workspace template) and identified risks.
func (a *App) NewMeeting(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	project, err := getSimpleText(a.reader, "Project", os.Stdout)
	if err != nil {
		return err
	}
	location, err := getSimpleText(a.reader, "Location", os.Stdout)
	if err != nil {
		return err
	}
	department, err := getSimpleText(a.reader, "Department", os.Stdout)
	if err != nil {
		return err
	}
	if department == "" {
		department = a.user.Department
	}

	cfg := a.data.Config()
	topics := make([]string, 0, len(cfg.KickoffTopics))
	for _, topic := range cfg.KickoffTopics {
		reply, err := getSimpleText(a.reader, fmt.Sprintf("Discussed %q? [Y/n]", topic), os.Stdout)
		if err != nil {
			return err
		}
		if !strings.EqualFold(reply, "n") {
			topics = append(topics, topic)
		}
	}

	risks, err := GetList(a.reader, "Identified risks", os.Stdout)
	if err != nil {
		return err
	}

	names, err := GetList(a.reader, "Attendees", os.Stdout)
	if err != nil {
		return err
	}
	attendees := make([]model.Attendee, 0, len(names))
	for _, name := range names {
		attendees = append(attendees, model.Attendee{Name: name})
	}

	m := a.data.AddMeeting(ctx, model.Meeting{
		Project:         project,
		Date:            time.Now().Format("2006-01-02"),
		UserID:          a.user.ID,
		Department:      department,
		Location:        location,
		Attendees:       attendees,
		Topics:          topics,
		RisksIdentified: risks,
	})

	printlnFn(fmt.Sprintf("Created kick-off meeting %s.", shortID(m.ID)))
	return nil
}
