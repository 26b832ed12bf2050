package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/daytrack-server/internal/apierrors"
	"github.com/dtroode/daytrack-server/internal/model"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type userResponse struct {
	User userDTO `json:"user"`
}

type sessionResponse struct {
	Token       string  `json:"token"`
	ExpiresInMs int64   `json:"expiresInMs"`
	User        userDTO `json:"user"`
}

// recordFieldsDTO carries the user-editable part of a record. There is no
// owner field: ownership always comes from the session.
type recordFieldsDTO struct {
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Year           *int       `json:"year,omitempty"`
	Genre          string     `json:"genre,omitempty"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	Summary        string     `json:"summary,omitempty"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	Author         string     `json:"author,omitempty"`
	Director       string     `json:"director,omitempty"`
	Actors         []string   `json:"actors,omitempty"`
	Console        string     `json:"console,omitempty"`
	Season         *int       `json:"season,omitempty"`
	Volume         *int       `json:"volume,omitempty"`
}

type recordDTO struct {
	ID uuid.UUID `json:"id"`
	recordFieldsDTO
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// candidateDTO is one entry of a bulk import. "_id" is accepted for clients
// that echo stored records back verbatim.
type candidateDTO struct {
	ID       string `json:"id,omitempty"`
	LegacyID string `json:"_id,omitempty"`
	recordFieldsDTO
}

type importRequest struct {
	Records []candidateDTO `json:"records"`
}

type recordResponse struct {
	Record recordDTO `json:"record"`
}

type recordsResponse struct {
	Records []recordDTO `json:"records"`
	Total   int         `json:"total"`
}

type importResponse struct {
	Records []recordDTO `json:"records"`
}

func toUserDTO(u model.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email}
}

func (d recordFieldsDTO) toModel() model.RecordFields {
	return model.RecordFields{
		Type:           model.RecordType(d.Type),
		Title:          d.Title,
		Year:           d.Year,
		Genre:          d.Genre,
		ImageURL:       d.ImageURL,
		Summary:        d.Summary,
		CompletionDate: d.CompletionDate,
		Author:         d.Author,
		Director:       d.Director,
		Actors:         d.Actors,
		Console:        d.Console,
		Season:         d.Season,
		Volume:         d.Volume,
	}
}

func toRecordDTO(r model.Record) recordDTO {
	return recordDTO{
		ID: r.ID,
		recordFieldsDTO: recordFieldsDTO{
			Type:           string(r.Type),
			Title:          r.Title,
			Year:           r.Year,
			Genre:          r.Genre,
			ImageURL:       r.ImageURL,
			Summary:        r.Summary,
			CompletionDate: r.CompletionDate,
			Author:         r.Author,
			Director:       r.Director,
			Actors:         r.Actors,
			Console:        r.Console,
			Season:         r.Season,
			Volume:         r.Volume,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toRecordDTOs(records []model.Record) []recordDTO {
	out := make([]recordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordDTO(r))
	}
	return out
}

// toCandidates parses every candidate id up front. One malformed id rejects
// the whole batch.
func (req importRequest) toCandidates() ([]model.Candidate, error) {
	candidates := make([]model.Candidate, 0, len(req.Records))
	for i, c := range req.Records {
		candidate := model.Candidate{Fields: c.recordFieldsDTO.toModel()}

		raw := c.ID
		if raw == "" {
			raw = c.LegacyID
		}
		if raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, apierrors.NewErrValidation("record %d: invalid record id %q", i, raw)
			}
			candidate.ID = &id
		}

		candidates = append(candidates, candidate)
	}
	return candidates, nil
}
