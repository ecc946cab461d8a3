package cli

import (
	"context"
	"dcasassess/internal/app"
	"dcasassess/internal/config"
	"dcasassess/internal/model"
	"dcasassess/internal/repository"
	"dcasassess/internal/service"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var optionLabels = [4]string{"A", "B", "C", "D"}

// NewSeedCmd creates the configured admin and a sample live template.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and sample assessment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())
			return seed(cmd.Context(), a)
		},
	}
}

func seed(ctx context.Context, a *app.App) error {
	if err := seedAdmin(ctx, a.AdminRepo, a.Config.Auth.AdminUsername, a.Config.Auth.AdminPassword); err != nil {
		return err
	}
	return seedTemplate(ctx, a.QuestionRepo, a.TemplateRepo)
}

func seedAdmin(ctx context.Context, repo repository.AdminRepo, username, password string) error {
	existing, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("Admin already exists: %s", username)
		return nil
	}

	if password == "" {
		password = uuid.NewString()
		log.Printf("ADMIN_PASSWORD not set, generated password for %s: %s", username, password)
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	if err := repo.Create(ctx, &model.Admin{Username: username, Name: "DCAS Admin", PasswordHash: hash}); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("Admin created: %s", username)
	return nil
}

func seedTemplate(ctx context.Context, questions repository.QuestionRepo, templates repository.TemplateRepo) error {
	n, err := templates.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("Templates already present (%d), skipping sample assessment", n)
		return nil
	}

	ids := make([]string, 0, len(sampleQuestions))
	for _, sq := range sampleQuestions {
		q := &model.Question{Text: sq.text, Active: true}
		for i, text := range sq.options {
			q.Options = append(q.Options, model.QuestionOption{
				Label:    optionLabels[i],
				Text:     text,
				DCASType: model.DCASTypes[i],
			})
		}
		if err := questions.Create(ctx, q); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		ids = append(ids, q.ID)
	}

	tpl := &model.AssessmentTemplate{
		Name:      "DCAS Behavioral Assessment",
		Questions: ids,
		Settings:  model.TemplateSettings{Randomized: true, Language: "en"},
		Active:    true,
		IsLive:    true,
	}
	if err := templates.Create(ctx, tpl); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	log.Printf("Sample assessment created with %d questions", len(ids))
	return nil
}
