package seeds

import (
	"context"
	"fmt"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
)

type PostsSeed struct {
	repo repository.Posts
}

func NewPostsSeed(db *database.Connection) *PostsSeed {
	return &PostsSeed{
		repo: repository.Posts{DB: db},
	}
}

// CreatePosts feeds each sample through the repository so slugs, excerpts
// and published timestamps come out exactly as they would for real content.
func (s PostsSeed) CreatePosts(super, editor *database.Admin) ([]*database.Post, error) {
	samples := []database.PostAttrs{
		{
			AuthorID: super.ID,
			Title:    "Welcome to Inkwell",
			Body: []string{
				"Inkwell is a small publishing engine for people who want to own their words.",
				"This post was created by the seeder. Feel free to edit or delete it once you have content of your own.",
			},
			Tags:   []string{"announcements"},
			Status: database.StatusPublished,
		},
		{
			AuthorID: editor.ID,
			Title:    "Writing Your First Post",
			Body: []string{
				"Sign in with the seeded editor account and hit the admin posts endpoint to publish your first piece.",
				"Posts start out as drafts, so nothing goes public until you flip the status.",
			},
			Tags:   []string{"guides", "writing"},
			Status: database.StatusPublished,
		},
		{
			AuthorID: editor.ID,
			Title:    "Ideas Parked for Later",
			Body: []string{
				"Drafts never show up on the public site. This one exists so the admin listing has something to filter on.",
			},
			Tags:   []string{"guides"},
			Status: database.StatusDraft,
		},
	}

	posts := make([]*database.Post, 0, len(samples))

	for _, attrs := range samples {
		post, err := s.repo.Create(context.Background(), attrs)
		if err != nil {
			return nil, fmt.Errorf("seed post %q: %w", attrs.Title, err)
		}

		posts = append(posts, post)
	}

	return posts, nil
}
