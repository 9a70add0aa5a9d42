package rewrites

import (
	"context"
	"errors"
	"strings"
	"testing"

	"matchrate-backend/internal/llm"
	"matchrate-backend/internal/parses"
)

type fakeLLM struct {
	out   string
	err   error
	input llm.RewriteInput
}

func (f *fakeLLM) RewriteResume(ctx context.Context, input llm.RewriteInput) (string, error) {
	f.input = input
	return f.out, f.err
}

const rewritten = `Jane Doe
jane@example.com
SUMMARY
Payments engineer.
PROFESSIONAL EXPERIENCE
Senior Engineer | Acme Corp | 01/2020 - Present
• Built the billing pipeline.
KEY SKILLS
Go, Postgres
EDUCATION
BSc Computer Science`

func newService(client llm.Client) *Service {
	return &Service{LLM: client, Parses: &parses.Service{Repo: parses.NewMemoryRepo()}}
}

func TestRewriteStoresParse(t *testing.T) {
	client := &fakeLLM{out: rewritten}
	svc := newService(client)

	p, err := svc.Rewrite(context.Background(), "u1", "old resume", "payments role")
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if p.Source != parses.SourceRewrite {
		t.Fatalf("expected rewrite source, got %q", p.Source)
	}
	if p.Record.Name != "Jane Doe" || len(p.Record.Experiences) != 1 {
		t.Fatalf("unexpected record %+v", p.Record)
	}
	if client.input.JobDescription != "payments role" || client.input.ResumeText != "old resume" {
		t.Fatalf("unexpected llm input %+v", client.input)
	}
}

func TestRewriteValidation(t *testing.T) {
	svc := newService(&fakeLLM{out: rewritten})
	tests := []struct {
		name   string
		user   string
		resume string
		job    string
	}{
		{name: "no user", user: "", resume: "r", job: "j"},
		{name: "no resume", user: "u1", resume: " ", job: "j"},
		{name: "no job", user: "u1", resume: "r", job: ""},
		{name: "huge job", user: "u1", resume: "r", job: strings.Repeat("j", MaxJobDescriptionBytes+1)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Rewrite(context.Background(), tt.user, tt.resume, tt.job); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRewriteProviderErrors(t *testing.T) {
	svc := newService(llm.PlaceholderClient{})
	_, err := svc.Rewrite(context.Background(), "u1", "resume", "job")
	if !errors.Is(err, llm.ErrNotConfigured) || !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrNotConfigured wrapped in ErrUnavailable, got %v", err)
	}

	svc = newService(&fakeLLM{out: "   "})
	if _, err := svc.Rewrite(context.Background(), "u1", "resume", "job"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for blank output, got %v", err)
	}
}
