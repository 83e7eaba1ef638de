package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/internal/graphql"
)

// ErrNotFound is returned when the API has no record for the requested id
var ErrNotFound = errors.New("not found")

// ErrNoResult is returned when a mutation succeeded without errors but the
// API sent back no record
var ErrNoResult = errors.New("API returned no result")

// Refresher schedules a background refresh of the shared portfolio cache
type Refresher interface {
	RequestRefresh(ctx context.Context) error
}

// Service runs portfolio operations through a GraphQL client
type Service struct {
	client    *graphql.Client
	validate  *validator.Validate
	refresher Refresher
	logger    zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithRefresher requests a cache refresh after every successful mutation
func WithRefresher(r Refresher) Option {
	return func(s *Service) { s.refresher = r }
}

// WithValidator shares a validator between services
func WithValidator(v *validator.Validate) Option {
	return func(s *Service) { s.validate = v }
}

// NewService creates a new portfolio service
func NewService(client *graphql.Client, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{client: client, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.validate == nil {
		s.validate = NewValidator()
	}
	return s
}

// Portfolio returns the profile, projects, skills and experiences at once
func (s *Service) Portfolio(ctx context.Context) (*Portfolio, error) {
	var data struct {
		GetPortfolio *Portfolio `json:"getPortfolio"`
	}
	if err := s.client.Watch(ctx, getPortfolioOp(), &data); err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if data.GetPortfolio == nil {
		return &Portfolio{}, nil
	}
	return data.GetPortfolio, nil
}

// RefreshPortfolio refetches the home page query and replaces its cached response
func (s *Service) RefreshPortfolio(ctx context.Context) error {
	if err := s.client.Refresh(ctx, getPortfolioOp()); err != nil {
		return fmt.Errorf("failed to refresh portfolio: %w", err)
	}
	return nil
}

// Profile returns the portfolio owner's profile, or ErrNotFound when none exists yet
func (s *Service) Profile(ctx context.Context) (*Profile, error) {
	var data struct {
		GetProfil *Profile `json:"getProfil"`
	}
	if err := s.client.Watch(ctx, getProfileOp(), &data); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if data.GetProfil == nil {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}
	return data.GetProfil, nil
}

// Projects lists projects, filtered by status when set
func (s *Service) Projects(ctx context.Context, status ProjectStatus) ([]Project, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, status)
	}
	var data struct {
		GetProjets []Project `json:"getProjets"`
	}
	if err := s.client.Watch(ctx, getProjectsOp(status), &data); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return data.GetProjets, nil
}

// Project returns a single project
func (s *Service) Project(ctx context.Context, id string) (*Project, error) {
	var data struct {
		GetProjet *Project `json:"getProjet"`
	}
	if err := s.client.Watch(ctx, getProjectOp(id), &data); err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", id, err)
	}
	if data.GetProjet == nil {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return data.GetProjet, nil
}

// Skills lists skills, filtered by category when set
func (s *Service) Skills(ctx context.Context, category SkillCategory) ([]Skill, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown skill category %q", ErrInvalidInput, category)
	}
	var data struct {
		GetCompetences []Skill `json:"getCompetences"`
	}
	if err := s.client.Watch(ctx, getSkillsOp(category), &data); err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return data.GetCompetences, nil
}

// Skill returns a single skill
func (s *Service) Skill(ctx context.Context, id string) (*Skill, error) {
	var data struct {
		GetCompetence *Skill `json:"getCompetence"`
	}
	if err := s.client.Watch(ctx, getSkillOp(id), &data); err != nil {
		return nil, fmt.Errorf("failed to load skill %s: %w", id, err)
	}
	if data.GetCompetence == nil {
		return nil, fmt.Errorf("skill %s: %w", id, ErrNotFound)
	}
	return data.GetCompetence, nil
}

// Experiences lists professional experiences
func (s *Service) Experiences(ctx context.Context) ([]Experience, error) {
	var data struct {
		GetExperiences []Experience `json:"getExperiences"`
	}
	if err := s.client.Watch(ctx, getExperiencesOp(), &data); err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return data.GetExperiences, nil
}

// Experience returns a single experience
func (s *Service) Experience(ctx context.Context, id string) (*Experience, error) {
	var data struct {
		GetExperience *Experience `json:"getExperience"`
	}
	if err := s.client.Watch(ctx, getExperienceOp(id), &data); err != nil {
		return nil, fmt.Errorf("failed to load experience %s: %w", id, err)
	}
	if data.GetExperience == nil {
		return nil, fmt.Errorf("experience %s: %w", id, ErrNotFound)
	}
	return data.GetExperience, nil
}

// SaveProfile creates the profile when id is empty and updates it otherwise
func (s *Service) SaveProfile(ctx context.Context, id string, in ProfileInput) (*Profile, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	var data struct {
		CreateProfil *Profile `json:"createProfil"`
		UpdateProfil *Profile `json:"updateProfil"`
	}
	operation := createProfileOp(in)
	if id != "" {
		operation = updateProfileOp(id, in)
	}
	if err := s.mutate(ctx, operation, &data); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	if id != "" {
		if data.UpdateProfil == nil {
			return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return data.UpdateProfil, nil
	}
	if data.CreateProfil == nil {
		return nil, fmt.Errorf("create profile: %w", ErrNoResult)
	}
	return data.CreateProfil, nil
}

// CreateProject creates a project
func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (*Project, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	var data struct {
		CreateProjet *Project `json:"createProjet"`
	}
	if err := s.mutate(ctx, createProjectOp(in), &data); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	if data.CreateProjet == nil {
		return nil, fmt.Errorf("create project: %w", ErrNoResult)
	}
	return data.CreateProjet, nil
}

// UpdateProject replaces a project's fields
func (s *Service) UpdateProject(ctx context.Context, id string, in ProjectInput) (*Project, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	var data struct {
		UpdateProjet *Project `json:"updateProjet"`
	}
	if err := s.mutate(ctx, updateProjectOp(id, in), &data); err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", id, err)
	}
	if data.UpdateProjet == nil {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return data.UpdateProjet, nil
}

// DeleteProject deletes a project
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	var data struct {
		DeleteProjet bool `json:"deleteProjet"`
	}
	if err := s.mutate(ctx, deleteProjectOp(id), &data); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	if !data.DeleteProjet {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateSkill creates a skill
func (s *Service) CreateSkill(ctx context.Context, in SkillInput) (*Skill, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	var data struct {
		CreateCompetence *Skill `json:"createCompetence"`
	}
	if err := s.mutate(ctx, createSkillOp(in), &data); err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	if data.CreateCompetence == nil {
		return nil, fmt.Errorf("create skill: %w", ErrNoResult)
	}
	return data.CreateCompetence, nil
}

// UpdateSkill replaces a skill's fields
func (s *Service) UpdateSkill(ctx context.Context, id string, in SkillInput) (*Skill, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	var data struct {
		UpdateCompetence *Skill `json:"updateCompetence"`
	}
	if err := s.mutate(ctx, updateSkillOp(id, in), &data); err != nil {
		return nil, fmt.Errorf("failed to update skill %s: %w", id, err)
	}
	if data.UpdateCompetence == nil {
		return nil, fmt.Errorf("skill %s: %w", id, ErrNotFound)
	}
	return data.UpdateCompetence, nil
}

// DeleteSkill deletes a skill
func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	var data struct {
		DeleteCompetence bool `json:"deleteCompetence"`
	}
	if err := s.mutate(ctx, deleteSkillOp(id), &data); err != nil {
		return fmt.Errorf("failed to delete skill %s: %w", id, err)
	}
	if !data.DeleteCompetence {
		return fmt.Errorf("skill %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateExperience creates an experience
func (s *Service) CreateExperience(ctx context.Context, in ExperienceInput) (*Experience, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	var data struct {
		CreateExperience *Experience `json:"createExperience"`
	}
	if err := s.mutate(ctx, createExperienceOp(in), &data); err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}
	if data.CreateExperience == nil {
		return nil, fmt.Errorf("create experience: %w", ErrNoResult)
	}
	return data.CreateExperience, nil
}

// UpdateExperience replaces an experience's fields
func (s *Service) UpdateExperience(ctx context.Context, id string, in ExperienceInput) (*Experience, error) {
	in = in.Normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	var data struct {
		UpdateExperience *Experience `json:"updateExperience"`
	}
	if err := s.mutate(ctx, updateExperienceOp(id, in), &data); err != nil {
		return nil, fmt.Errorf("failed to update experience %s: %w", id, err)
	}
	if data.UpdateExperience == nil {
		return nil, fmt.Errorf("experience %s: %w", id, ErrNotFound)
	}
	return data.UpdateExperience, nil
}

// DeleteExperience deletes an experience
func (s *Service) DeleteExperience(ctx context.Context, id string) error {
	var data struct {
		DeleteExperience bool `json:"deleteExperience"`
	}
	if err := s.mutate(ctx, deleteExperienceOp(id), &data); err != nil {
		return fmt.Errorf("failed to delete experience %s: %w", id, err)
	}
	if !data.DeleteExperience {
		return fmt.Errorf("experience %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, operation graphql.Operation, out any) error {
	if err := s.client.Mutate(ctx, operation, out); err != nil {
		return err
	}
	if s.refresher != nil {
		if err := s.refresher.RequestRefresh(ctx); err != nil {
			s.logger.Warn().Err(err).Str("operation", operation.Name).Msg("Failed to request portfolio refresh")
		}
	}
	return nil
}

type authPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (p *authPayload) toLoginPayload() (*auth.LoginPayload, error) {
	if p == nil || p.Token == "" {
		return nil, errors.New("no token returned")
	}
	payload := &auth.LoginPayload{Token: p.Token}
	if p.User != nil {
		payload.User = map[string]any{
			"id":       p.User.ID,
			"username": p.User.Username,
			"email":    p.User.Email,
			"role":     p.User.Role,
		}
	}
	return payload, nil
}

// Login runs the login mutation. It satisfies auth.Authenticator.
func (s *Service) Login(ctx context.Context, email, password string) (*auth.LoginPayload, error) {
	var data struct {
		Login *authPayload `json:"login"`
	}
	if err := s.client.Mutate(ctx, loginOp(strings.TrimSpace(email), password), &data); err != nil {
		return nil, err
	}
	return data.Login.toLoginPayload()
}

// Authenticate implements auth.Authenticator
func (s *Service) Authenticate(ctx context.Context, identifier, secret string) (*auth.LoginPayload, error) {
	return s.Login(ctx, identifier, secret)
}

// Register creates an account and returns its token
func (s *Service) Register(ctx context.Context, username, email, password string) (*auth.LoginPayload, error) {
	var data struct {
		Register *authPayload `json:"register"`
	}
	if err := s.client.Mutate(ctx, registerOp(strings.TrimSpace(username), strings.TrimSpace(email), password), &data); err != nil {
		return nil, err
	}
	return data.Register.toLoginPayload()
}
