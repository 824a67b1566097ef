// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Store reads and creates named student groups. The reminder core only
// consumes the id-to-members mapping; everything else about group
// management belongs to an external collaborator.
type Store struct {
	docs docstore.Store
}

var ErrEmptyGroupName = errors.New("group name is required")

func New(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// GetAll returns every group. The resolver does a single GetAll per
// expansion rather than one lookup per group id.
func (s *Store) GetAll(ctx context.Context) ([]models.Group, error) {
	docs, err := s.docs.Query(ctx, docstore.Groups, docstore.Filter{})
	if err != nil {
		return nil, err
	}

	groups := make([]models.Group, 0, len(docs))
	for _, doc := range docs {
		var g models.Group
		if err := docstore.Decode(doc, &g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// Create stores a new group and returns it with its assigned id. The name is
// trimmed before it is persisted; sanitized input often carries stray
// whitespace where markup was stripped.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return models.Group{}, ErrEmptyGroupName
	}

	id, err := s.docs.Create(ctx, docstore.Groups, bson.M{
		"name":        g.Name,
		"student_ids": g.StudentIDs,
		"created_by":  g.CreatedBy,
	})
	if err != nil {
		return models.Group{}, err
	}
	g.ID = id
	return g, nil
}
