package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubhub/apperr"
	"clubhub/clients/store"
	"clubhub/utils"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/fatih/structs"
)

type Service interface {
	GetUser(ctx context.Context, ID string) (*User, error)
	// GetByEmail looks a user up by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)
	// UpdateUser applies a partial update to the user document.
	UpdateUser(ctx context.Context, ID string, fields map[string]any) error
	DeleteUser(ctx context.Context, ID string) error
	// GetAll returns all users. Used for admin backfills and reconciliation.
	GetAll(ctx context.Context) ([]User, error)
	GetByIDs(ctx context.Context, IDs []string) ([]User, error)
	UpdateUserSearch(ctx context.Context) error
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

type userService struct {
	db           store.Store
	searchClient *search.APIClient
}

var _ Service = (*userService)(nil)

const Collection = "users"

const searchIndex = "user_index"

func NewService(db store.Store, searchClient *search.APIClient) Service {
	return &userService{
		db:           db,
		searchClient: searchClient,
	}
}

var NotFound = errors.New("user not found")

func (s *userService) GetUser(ctx context.Context, ID string) (*User, error) {
	doc, err := s.db.Get(ctx, Collection, ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound
		}
		return nil, err
	}
	u := User{}
	if err := doc.DataTo(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*User, error) {
	docs, err := s.db.Query(ctx, store.Query{
		Collection: Collection,
		Filters: []store.Filter{
			{Path: "emailLower", Op: "==", Value: strings.ToLower(strings.TrimSpace(email))},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, NotFound
	}
	u := User{}
	if err := docs[0].DataTo(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) CreateUser(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.EmailLower = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" {
		user.ID = s.db.NewID(Collection)
	}

	if err := s.db.Set(ctx, Collection, user.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, ID string, fields map[string]any) error {
	fields["updatedAt"] = time.Now()
	if err := s.db.Merge(ctx, Collection, ID, fields); err != nil {
		return fmt.Errorf("failed to update user %s: %w", ID, err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, ID string) error {
	if err := s.db.Delete(ctx, Collection, ID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", ID, err)
	}
	return nil
}

func (s *userService) GetAll(ctx context.Context) ([]User, error) {
	docs, err := s.db.Query(ctx, store.Query{Collection: Collection})
	if err != nil {
		return nil, err
	}
	return utils.DocsTo[User](docs)
}

func (s *userService) GetByIDs(ctx context.Context, IDs []string) ([]User, error) {
	if len(IDs) == 0 {
		return nil, nil
	}
	// Hosted store caps "in" filters at 30 values per query.
	const inLimit = 30
	results := make([]User, 0, len(IDs))
	for i := 0; i < len(IDs); i += inLimit {
		end := i + inLimit
		if end > len(IDs) {
			end = len(IDs)
		}
		docs, err := s.db.Query(ctx, store.Query{
			Collection: Collection,
			Filters:    []store.Filter{{Path: "id", Op: "in", Value: IDs[i:end]}},
		})
		if err != nil {
			return nil, err
		}
		batch, err := utils.DocsTo[User](docs)
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}
	return results, nil
}

type searchRecord struct {
	ObjectID    string `structs:"objectID"`
	DisplayName string `structs:"displayName"`
	Email       string `structs:"email"`
	Role        string `structs:"role"`
	ClubIDs     string `structs:"clubIds"`
}

func (s *userService) UpdateUserSearch(ctx context.Context) error {
	if s.searchClient == nil {
		return apperr.New("SEARCH_DISABLED", "no search client configured")
	}
	users, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	records := make([]map[string]any, 0, len(users))
	for _, u := range users {
		records = append(records, structs.Map(searchRecord{
			ObjectID:    u.ID,
			DisplayName: u.DisplayName(),
			Email:       u.Email,
			Role:        u.Role,
			ClubIDs:     strings.Join(u.ClubIDs, " "),
		}))
	}
	result, err := s.searchClient.SaveObjects(searchIndex, records)
	if err != nil {
		return err
	}
	fmt.Printf("Done! Uploaded records in %d batches.", len(result))
	return nil
}

func (s *userService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if s.searchClient == nil {
		return nil, apperr.New("SEARCH_DISABLED", "no search client configured")
	}
	searchParams := search.SearchParams{
		SearchParamsObject: search.
			NewEmptySearchParamsObject().
			SetQuery(query),
	}
	response, err := s.searchClient.SearchSingleIndex(
		s.searchClient.NewApiSearchSingleIndexRequest(searchIndex).WithSearchParams(&searchParams),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search algolia: %w", err)
	}
	results := make([]SearchResult, 0, len(response.Hits))
	for _, hit := range response.Hits {
		var result SearchResult
		jsonData, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(jsonData, &result); err != nil {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}
