package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-dev/folio/internal/graphql"
)

func TestService_Portfolio(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"GetPortfolio": `{"data":{"getPortfolio":{
			"profil":{"id":"p1","nom":"Martin","prenom":"Alice","titre":"Développeuse","email":"alice@example.com","reseauxSociaux":{"github":"https://github.com/alice"},"adresse":{"ville":"Lyon","pays":"France"}},
			"projets":[{"id":"1","titre":"Folio","description":"Site","technologies":[{"id":"s1","nom":"Go"}],"images":[],"statut":"EN_COURS","ordre":1}],
			"competences":[{"id":"s1","nom":"Go","niveau":"EXPERT","categorie":"BACKEND","pourcentage":90}],
			"experiences":[{"id":"e1","entreprise":"Acme","poste":"Dev","type":"CDI","competences":[],"dateDebut":"2020-01-01","enCours":true,"ordre":0}]
		}}}`,
	})

	p, err := api.service().Portfolio(context.Background())
	require.NoError(t, err)

	require.NotNil(t, p.Profile)
	assert.Equal(t, "Alice Martin", p.Profile.FullName())
	assert.Equal(t, "https://github.com/alice", p.Profile.Social.GitHub)
	assert.Equal(t, "Lyon", p.Profile.Address.City)
	require.Len(t, p.Projects, 1)
	assert.Equal(t, StatusInProgress, p.Projects[0].Status)
	assert.Equal(t, "Go", p.Projects[0].Technologies[0].Name)
	require.Len(t, p.Skills, 1)
	assert.Equal(t, LevelExpert, p.Skills[0].Level)
	require.Len(t, p.Experiences, 1)
	assert.True(t, p.Experiences[0].Current)

	assert.Equal(t, "GetPortfolio", api.last().OperationName)
}

func TestService_PortfolioEmpty(t *testing.T) {
	api := newFakeAPI(t, map[string]string{"GetPortfolio": `{"data":{"getPortfolio":null}}`})

	p, err := api.service().Portfolio(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p.Profile)
	assert.Empty(t, p.Projects)
}

func TestService_ProjectsFilter(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"GetProjets": `{"data":{"getProjets":[{"id":"1","titre":"A","statut":"TERMINE"}]}}`,
	})
	svc := api.service()

	projects, err := svc.Projects(context.Background(), StatusDone)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, map[string]any{"statut": "TERMINE"}, api.last().Variables)

	_, err = svc.Projects(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, api.last().Variables)

	_, err = svc.Projects(context.Background(), "WIP")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_SkillsFilter(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"GetCompetences": `{"data":{"getCompetences":[{"id":"s1","nom":"Postgres","categorie":"DATABASE"}]}}`,
	})
	svc := api.service()

	skills, err := svc.Skills(context.Background(), CategoryDatabase)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, map[string]any{"categorie": "DATABASE"}, api.last().Variables)

	_, err = svc.Skills(context.Background(), "MOBILE")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_NotFound(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"GetProjet":        `{"data":{"getProjet":null}}`,
		"GetCompetence":    `{"data":{"getCompetence":null}}`,
		"GetExperience":    `{"data":{"getExperience":null}}`,
		"GetProfil":        `{"data":{"getProfil":null}}`,
		"DeleteProjet":     `{"data":{"deleteProjet":false}}`,
		"DeleteCompetence": `{"data":{"deleteCompetence":false}}`,
		"DeleteExperience": `{"data":{"deleteExperience":false}}`,
	})
	svc := api.service()
	ctx := context.Background()

	_, err := svc.Project(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Skill(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Experience(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Profile(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProject(ctx, "x"), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteSkill(ctx, "x"), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteExperience(ctx, "x"), ErrNotFound)
}

func TestService_CreateProject(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"CreateProjet": `{"data":{"createProjet":{"id":"42","titre":"Folio","statut":"EN_COURS"}}}`,
	})
	refresher := &countingRefresher{}
	svc := api.service(WithRefresher(refresher))

	project, err := svc.CreateProject(context.Background(), ProjectInput{
		Title:        "  Folio ",
		Description:  "Portfolio site",
		Technologies: []string{"s1", " "},
		Images:       []string{"", "https://img.example.com/a.png"},
		GitHubURL:    "github.com/alice/folio",
		DemoURL:      "https://folio.example.com",
		Status:       StatusInProgress,
		StartDate:    "2024-01-15T00:00:00.000Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", project.ID)
	assert.Equal(t, 1, refresher.calls)

	req := api.last()
	assert.Equal(t, "CreateProjet", req.OperationName)
	input := req.Variables["input"].(map[string]any)
	assert.Equal(t, "Folio", input["titre"])
	assert.Equal(t, []any{"s1"}, input["technologies"])
	assert.Equal(t, []any{"https://img.example.com/a.png"}, input["images"])
	assert.Equal(t, "2024-01-15", input["dateDebut"])
	assert.Equal(t, "https://folio.example.com", input["lienDemo"])
	assert.NotContains(t, input, "lienGithub", "links without an http scheme are dropped")
	assert.NotContains(t, input, "dateFin")
	assert.NotContains(t, req.Variables, "id")
}

func TestService_UpdateProjectSendsID(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"UpdateProjet": `{"data":{"updateProjet":{"id":"7","titre":"Folio v2","statut":"TERMINE"}}}`,
	})

	project, err := api.service().UpdateProject(context.Background(), "7", ProjectInput{
		Title:        "Folio v2",
		Description:  "Portfolio site",
		Technologies: []string{"s1"},
		Status:       StatusDone,
		StartDate:    "2024-01-15",
		EndDate:      "2024-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Folio v2", project.Title)
	assert.Equal(t, "7", api.last().Variables["id"])
}

func TestService_InvalidInputNeverReachesAPI(t *testing.T) {
	api := newFakeAPI(t, nil)
	refresher := &countingRefresher{}
	svc := api.service(WithRefresher(refresher))
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, ProjectInput{Title: "x", Description: "y", Status: StatusDone, StartDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "technologies")

	_, err = svc.CreateSkill(ctx, SkillInput{Name: "Go", Level: "GURU", Category: CategoryBackend, Percentage: 50})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateExperience(ctx, ExperienceInput{Company: "Acme", Position: "Dev", Type: "CONTRACTOR", StartDate: "2020-01-01"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SaveProfile(ctx, "", ProfileInput{LastName: "Martin", FirstName: "Alice", Title: "Dev", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, api.count())
	assert.Zero(t, refresher.calls)
}

func TestService_SaveProfile(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"CreateProfil": `{"data":{"createProfil":{"id":"p1","nom":"Martin","prenom":"Alice"}}}`,
		"UpdateProfil": `{"data":{"updateProfil":{"id":"p1","nom":"Martin","prenom":"Alicia"}}}`,
	})
	svc := api.service()
	in := ProfileInput{LastName: "Martin", FirstName: "Alice", Title: "Dev", Email: "alice@example.com"}

	created, err := svc.SaveProfile(context.Background(), "", in)
	require.NoError(t, err)
	assert.Equal(t, "CreateProfil", api.last().OperationName)
	assert.Equal(t, "Alice", created.FirstName)

	in.FirstName = "Alicia"
	updated, err := svc.SaveProfile(context.Background(), "p1", in)
	require.NoError(t, err)
	assert.Equal(t, "UpdateProfil", api.last().OperationName)
	assert.Equal(t, "p1", api.last().Variables["id"])
	assert.Equal(t, "Alicia", updated.FirstName)
}

func TestService_SaveProfile_EmptyPayload(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"CreateProfil": `{"data":{"createProfil":null}}`,
		"UpdateProfil": `{"data":{"updateProfil":null}}`,
	})
	svc := api.service()
	in := ProfileInput{LastName: "Martin", FirstName: "Alice", Title: "Dev", Email: "alice@example.com"}

	created, err := svc.SaveProfile(context.Background(), "", in)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrNoResult)

	updated, err := svc.SaveProfile(context.Background(), "p404", in)
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateWithEmptyPayload(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"CreateProjet":     `{"data":{"createProjet":null}}`,
		"CreateCompetence": `{"data":{"createCompetence":null}}`,
	})
	svc := api.service()

	project, err := svc.CreateProject(context.Background(), ProjectInput{
		Title: "Folio", Description: "d", Technologies: []string{"s1"}, Status: StatusInProgress, StartDate: "2024-01-01",
	})
	assert.Nil(t, project)
	assert.ErrorIs(t, err, ErrNoResult)

	skill, err := svc.CreateSkill(context.Background(), SkillInput{Name: "Go", Level: LevelExpert, Category: CategoryBackend, Percentage: 90})
	assert.Nil(t, skill)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestService_CreateExperienceOngoing(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"CreateExperience": `{"data":{"createExperience":{"id":"e1","entreprise":"Acme","enCours":true}}}`,
	})
	end := "2021-01-01"

	_, err := api.service().CreateExperience(context.Background(), ExperienceInput{
		Company:   "Acme",
		Position:  "Dev",
		Type:      "cdi",
		StartDate: "2022-01-01",
		EndDate:   &end,
		Current:   true,
	})
	require.NoError(t, err)

	input := api.last().Variables["input"].(map[string]any)
	assert.Equal(t, "CDI", input["type"])
	assert.Contains(t, input, "dateFin")
	assert.Nil(t, input["dateFin"], "ongoing experiences send a null end date")
	assert.Equal(t, true, input["enCours"])
}

func TestService_SkillMutations(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"CreateCompetence": `{"data":{"createCompetence":{"id":"s1","nom":"Go","niveau":"EXPERT","categorie":"BACKEND","pourcentage":90}}}`,
		"UpdateCompetence": `{"data":{"updateCompetence":{"id":"s1","nom":"Go","niveau":"AVANCE","categorie":"BACKEND","pourcentage":80}}}`,
		"DeleteCompetence": `{"data":{"deleteCompetence":true}}`,
	})
	svc := api.service()
	ctx := context.Background()

	created, err := svc.CreateSkill(ctx, SkillInput{Name: "Go", Level: "expert", Category: "backend", Percentage: 90})
	require.NoError(t, err)
	assert.Equal(t, LevelExpert, created.Level)

	updated, err := svc.UpdateSkill(ctx, "s1", SkillInput{Name: "Go", Level: LevelAdvanced, Category: CategoryBackend, Percentage: 80})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Percentage)

	require.NoError(t, svc.DeleteSkill(ctx, "s1"))
	assert.Equal(t, map[string]any{"id": "s1"}, api.last().Variables)
}

func TestService_RefreshFailureDoesNotFailMutation(t *testing.T) {
	api := newFakeAPI(t, map[string]string{"DeleteProjet": `{"data":{"deleteProjet":true}}`})
	refresher := &countingRefresher{err: errors.New("redis down")}

	require.NoError(t, api.service(WithRefresher(refresher)).DeleteProject(context.Background(), "1"))
	assert.Equal(t, 1, refresher.calls)
}

func TestService_Login(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"Login": `{"data":{"login":{"token":"jwt","user":{"id":"u1","username":"alice","email":"alice@example.com","role":"ADMIN"}}}}`,
	})

	payload, err := api.service().Authenticate(context.Background(), " alice@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", payload.Token)
	assert.Equal(t, "ADMIN", payload.User["role"])
	assert.Equal(t, map[string]any{"email": "alice@example.com", "password": "secret"}, api.last().Variables)
}

func TestService_LoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "graphql error", body: `{"data":{"login":null},"errors":[{"message":"Invalid credentials"}]}`, wantErr: "Invalid credentials"},
		{name: "missing token", body: `{"data":{"login":{"token":"","user":null}}}`, wantErr: "no token returned"},
		{name: "null payload", body: `{"data":{"login":null}}`, wantErr: "no token returned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, map[string]string{"Login": tt.body})
			_, err := api.service().Login(context.Background(), "a@b.c", "x")
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestService_Register(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"Register": `{"data":{"register":{"token":"jwt","user":{"id":"u2","username":"bob","email":"bob@example.com","role":"USER"}}}}`,
	})

	payload, err := api.service().Register(context.Background(), "bob", "bob@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u2", payload.User["id"])
}

func TestService_ReadsFallBackToCache(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"GetExperiences": `{"data":{"getExperiences":[{"id":"e1","entreprise":"Acme"}]}}`,
	})
	svc := api.service()

	_, err := svc.Experiences(context.Background())
	require.NoError(t, err)

	api.server.Close()

	experiences, err := svc.Experiences(context.Background())
	require.NoError(t, err)
	require.Len(t, experiences, 1)

	_, err = svc.Projects(context.Background(), "")
	assert.True(t, graphql.IsTransportError(err))
}

func TestSkillsByCategory(t *testing.T) {
	groups := SkillsByCategory([]Skill{
		{ID: "1", Category: CategoryDevOps},
		{ID: "2", Category: CategoryFrontend},
		{ID: "3", Category: "MOBILE"},
		{ID: "4", Category: CategoryFrontend},
	})

	require.Len(t, groups, 3)
	assert.Equal(t, CategoryFrontend, groups[0].Category)
	assert.Len(t, groups[0].Skills, 2)
	assert.Equal(t, CategoryDevOps, groups[1].Category)
	assert.Equal(t, CategoryOther, groups[2].Category)
	assert.Equal(t, "3", groups[2].Skills[0].ID)
}
