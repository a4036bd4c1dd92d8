package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vcabel/safework/internal/model"
)

// ListAssessments prints the live assessments, newest first.
func (a *App) ListAssessments(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}
	items := a.data.Assessments()
	if len(items) == 0 {
		printlnFn("No assessments yet.")
		return nil
	}
	for _, item := range items {
		printlnFn(fmt.Sprintf("%s  %-10s %-20s %-14s %s",
			shortID(item.ID), item.Date, clip(item.Title, 20), item.Department, item.Status))
	}
	return nil
}

// NewAssessment walks through the workspace question template and creates a
// new last-minute risk analysis for the logged-in user.
func (a *App) NewAssessment(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	title, err := getSimpleText(a.reader, "Project / task", os.Stdout)
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
	questions := make([]model.Question, 0, len(cfg.Questions))
	for i, text := range cfg.Questions {
		answer, reason, err := GetAnswer(a.reader, text, os.Stdout)
		if err != nil {
			return err
		}
		questions = append(questions, model.Question{
			ID:     fmt.Sprintf("q%d", i+1),
			Text:   text,
			Answer: answer,
			Reason: reason,
		})
	}

	remarks, err := getSimpleText(a.reader, "Remarks (optional)", os.Stdout)
	if err != nil {
		return err
	}

	item := a.data.AddAssessment(ctx, model.Assessment{
		Title:      title,
		Date:       time.Now().Format("2006-01-02"),
		UserID:     a.user.ID,
		UserName:   a.user.Name,
		Department: department,
		Location:   location,
		Questions:  questions,
		Remarks:    remarks,
	})

	printlnFn(fmt.Sprintf("Created assessment %s with status %s.", shortID(item.ID), item.Status))
	return nil
}

// ShowAssessment prints one assessment in full.
func (a *App) ShowAssessment(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	item, ok := a.findAssessment(id)
	if !ok {
		printlnFn("Assessment not found:", id)
		return nil
	}

	printlnFn(fmt.Sprintf("%s  %s (%s)", shortID(item.ID), item.Title, item.Status))
	printlnFn(fmt.Sprintf("  %s  %s / %s  by %s", item.Date, item.Department, item.Location, item.UserName))
	for _, q := range item.Questions {
		line := fmt.Sprintf("  [%-3s] %s", q.Answer, q.Text)
		if q.Reason != "" {
			line += " (" + q.Reason + ")"
		}
		printlnFn(line)
	}
	for _, at := range item.Attendees {
		mark := " "
		if at.Signed {
			mark = "x"
		}
		printlnFn(fmt.Sprintf("  [%s] attendee %s", mark, at.Name))
	}
	if item.Remarks != "" {
		printlnFn("  Remarks:", item.Remarks)
	}
	if item.Status == model.StatusResolved {
		printlnFn("  Resolved by", item.ResolvedByName+":", item.TreatmentNotes)
	}
	return nil
}

// SignAssessment records the logged-in user's signature on the assessment.
func (a *App) SignAssessment(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	item, ok := a.findAssessment(id)
	if !ok {
		printlnFn("Assessment not found:", id)
		return nil
	}

	signed := false
	for i := range item.Attendees {
		at := &item.Attendees[i]
		if at.UserID == a.user.ID || strings.EqualFold(at.Name, a.user.Name) {
			at.Signed = true
			at.Signature = "signed-by-" + a.user.ID
			signed = true
		}
	}
	if !signed {
		item.Attendees = append(item.Attendees, model.Attendee{
			UserID:    a.user.ID,
			Name:      a.user.Name,
			Signature: "signed-by-" + a.user.ID,
			Signed:    true,
		})
	}

	item = a.data.UpdateAssessment(ctx, item)
	printlnFn(fmt.Sprintf("Signed. Status is now %s.", item.Status))
	return nil
}

// ResolveAssessment marks a NOK assessment as treated, recording who
// resolved it and the treatment notes.
func (a *App) ResolveAssessment(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	item, ok := a.findAssessment(id)
	if !ok {
		printlnFn("Assessment not found:", id)
		return nil
	}
	if item.Status != model.StatusNOK {
		printlnFn("Only NOK assessments can be resolved; status is", string(item.Status))
		return nil
	}

	notes, err := getSimpleText(a.reader, "Treatment notes", os.Stdout)
	if err != nil {
		return err
	}

	item.ResolvedByID = a.user.ID
	item.ResolvedByName = a.user.Name
	item.TreatmentNotes = notes

	item = a.data.UpdateAssessment(ctx, item)
	printlnFn(fmt.Sprintf("Resolved. Status is now %s.", item.Status))
	return nil
}

// DeleteAssessment tombstones an assessment after confirmation.
func (a *App) DeleteAssessment(ctx context.Context, id string) error {
	if !a.requireLogin() {
		return nil
	}
	item, ok := a.findAssessment(id)
	if !ok {
		printlnFn("Assessment not found:", id)
		return nil
	}

	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Delete %q? [y/N]", item.Title), os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "y") {
		printlnFn("Cancelled.")
		return nil
	}

	a.data.DeleteAssessment(ctx, item.ID)
	printlnFn("Deleted.")
	return nil
}

// findAssessment resolves a full or shortened id to a live assessment.
func (a *App) findAssessment(id string) (model.Assessment, bool) {
	if id == "" {
		return model.Assessment{}, false
	}
	if item, ok := a.data.FindAssessment(id); ok {
		return item, true
	}
	for _, item := range a.data.Assessments() {
		if strings.HasPrefix(item.ID, id) {
			return item, true
		}
	}
	return model.Assessment{}, false
}

func (a *App) requireLogin() bool {
	if a.user == nil {
		printlnFn("Log in first.")
		return false
	}
	return true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
