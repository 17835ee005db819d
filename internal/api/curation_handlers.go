package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reelnotes/reelnotes-server/internal/service"
)

func (s *Server) registerCurationRoutes() {
	register(s, huma.Operation{
		OperationID: "getPersonalization",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}/personalization",
		Summary:     "Get personalization",
		Description: "Returns the tags, categories and note the caller attached to a movie",
		Tags:        []string{"Curation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPersonalization)

	register(s, huma.Operation{
		OperationID:   "addMovieTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/movies/{id}/tags",
		Summary:       "Apply tag",
		Description:   "Applies a tag to a movie for the caller and schedules post regeneration",
		Tags:          []string{"Curation"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddMovieTag)

	register(s, huma.Operation{
		OperationID: "removeMovieTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/movies/{id}/tags/{tagId}",
		Summary:     "Remove tag",
		Description: "Removes a tag the caller applied to a movie",
		Tags:        []string{"Curation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveMovieTag)

	register(s, huma.Operation{
		OperationID:   "addMovieCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/movies/{id}/categories",
		Summary:       "File under category",
		Description:   "Files a movie under a category for the caller and schedules post regeneration",
		Tags:          []string{"Curation"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddMovieCategory)

	register(s, huma.Operation{
		OperationID: "removeMovieCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/movies/{id}/categories/{categoryId}",
		Summary:     "Remove category",
		Description: "Removes a category the caller filed a movie under",
		Tags:        []string{"Curation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveMovieCategory)

	register(s, huma.Operation{
		OperationID: "putMovieNote",
		Method:      http.MethodPut,
		Path:        "/api/v1/movies/{id}/note",
		Summary:     "Write note",
		Description: "Adds a personal note. The latest note is quoted in the generated post.",
		Tags:        []string{"Curation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePutMovieNote)

	register(s, huma.Operation{
		OperationID: "deleteMovieNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/movies/{id}/note",
		Summary:     "Delete notes",
		Description: "Deletes the caller's notes on a movie",
		Tags:        []string{"Curation"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMovieNote)
}

// === DTOs ===

// PersonalizationOutput wraps the personalization response for Huma.
type PersonalizationOutput struct {
	Body PersonalizationResponse
}

// ApplyTagRequest is the request body for applying a tag.
type ApplyTagRequest struct {
	TagID string `json:"tag_id" minLength:"1" doc:"Tag ID"`
}

// ApplyTagInput wraps the apply tag request for Huma.
type ApplyTagInput struct {
	ID   string `path:"id" doc:"Movie ID"`
	Body ApplyTagRequest
}

// RemoveTagInput identifies an applied tag.
type RemoveTagInput struct {
	ID    string `path:"id" doc:"Movie ID"`
	TagID string `path:"tagId" doc:"Tag ID"`
}

// ApplyCategoryRequest is the request body for filing under a category.
type ApplyCategoryRequest struct {
	CategoryID string `json:"category_id" minLength:"1" doc:"Category ID"`
}

// ApplyCategoryInput wraps the apply category request for Huma.
type ApplyCategoryInput struct {
	ID   string `path:"id" doc:"Movie ID"`
	Body ApplyCategoryRequest
}

// RemoveCategoryInput identifies an applied category.
type RemoveCategoryInput struct {
	ID         string `path:"id" doc:"Movie ID"`
	CategoryID string `path:"categoryId" doc:"Category ID"`
}

// PutNoteRequest is the request body for writing a note.
type PutNoteRequest struct {
	Content string `json:"content" minLength:"1" maxLength:"10000" doc:"Note text"`
}

// PutNoteInput wraps the note request for Huma.
type PutNoteInput struct {
	ID   string `path:"id" doc:"Movie ID"`
	Body PutNoteRequest
}

// NoteOutput wraps the note response for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// === Handlers ===

func (s *Server) handleGetPersonalization(ctx context.Context, input *MovieIDInput) (*PersonalizationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.personalization(ctx, userID, input.ID)
}

func (s *Server) handleAddMovieTag(ctx context.Context, input *ApplyTagInput) (*PersonalizationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Curation.AddTag(ctx, userID, input.ID, input.Body.TagID); err != nil {
		return nil, err
	}
	return s.personalization(ctx, userID, input.ID)
}

func (s *Server) handleRemoveMovieTag(ctx context.Context, input *RemoveTagInput) (*PersonalizationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Curation.RemoveTag(ctx, userID, input.ID, input.TagID); err != nil {
		return nil, err
	}
	return s.personalization(ctx, userID, input.ID)
}

func (s *Server) handleAddMovieCategory(ctx context.Context, input *ApplyCategoryInput) (*PersonalizationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Curation.AddCategory(ctx, userID, input.ID, input.Body.CategoryID); err != nil {
		return nil, err
	}
	return s.personalization(ctx, userID, input.ID)
}

func (s *Server) handleRemoveMovieCategory(ctx context.Context, input *RemoveCategoryInput) (*PersonalizationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Curation.RemoveCategory(ctx, userID, input.ID, input.CategoryID); err != nil {
		return nil, err
	}
	return s.personalization(ctx, userID, input.ID)
}

func (s *Server) handlePutMovieNote(ctx context.Context, input *PutNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Curation.PutNote(ctx, userID, input.ID, service.PutNoteInput{Content: input.Body.Content})
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: *toNoteResponse(note)}, nil
}

func (s *Server) handleDeleteMovieNote(ctx context.Context, input *MovieIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Curation.DeleteNote(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

func (s *Server) personalization(ctx context.Context, userID, movieID string) (*PersonalizationOutput, error) {
	p, err := s.services.Curation.Personalization(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}
	return &PersonalizationOutput{
		Body: PersonalizationResponse{
			MovieID:    movieID,
			Tags:       toTagResponses(p.Tags),
			Categories: toCategoryResponses(p.Categories),
			Note:       toNoteResponse(p.Note),
		},
	}, nil
}
