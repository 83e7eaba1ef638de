package portfolio

import "github.com/folio-dev/folio/internal/graphql"

const (
	profileFields = `
  id nom prenom titre bio email telephone photo cv
  reseauxSociaux { linkedin github twitter website }
  adresse { ville pays }`

	skillRefFields = `id nom niveau categorie icone`

	skillFields = `
  id nom niveau categorie pourcentage icone createdAt updatedAt`

	projectFields = `
  id titre description descriptionLongue
  technologies { ` + skillRefFields + ` }
  images lienGithub lienDemo statut dateDebut dateFin ordre createdAt updatedAt`

	experienceFields = `
  id entreprise poste type description
  competences { ` + skillRefFields + ` }
  dateDebut dateFin enCours lieu logo ordre createdAt updatedAt`

	authFields = `
  token
  user { id username email role }`
)

func op(name, query string, vars map[string]any) graphql.Operation {
	return graphql.Operation{Name: name, Query: query, Variables: vars}
}

func idVars(id string) map[string]any {
	return map[string]any{"id": id}
}

func inputVars(id string, input any) map[string]any {
	vars := map[string]any{"input": input}
	if id != "" {
		vars["id"] = id
	}
	return vars
}

// Queries

func getPortfolioOp() graphql.Operation {
	return op("GetPortfolio", `query GetPortfolio {
  getPortfolio {
    profil {`+profileFields+` }
    projets {`+projectFields+` }
    competences {`+skillFields+` }
    experiences {`+experienceFields+` }
  }
}`, nil)
}

func getProfileOp() graphql.Operation {
	return op("GetProfil", `query GetProfil {
  getProfil {`+profileFields+` createdAt updatedAt }
}`, nil)
}

func getProjectsOp(status ProjectStatus) graphql.Operation {
	var vars map[string]any
	if status != "" {
		vars = map[string]any{"statut": status}
	}
	return op("GetProjets", `query GetProjets($statut: StatutProjet) {
  getProjets(statut: $statut) {`+projectFields+` }
}`, vars)
}

func getProjectOp(id string) graphql.Operation {
	return op("GetProjet", `query GetProjet($id: ID!) {
  getProjet(id: $id) {`+projectFields+` }
}`, idVars(id))
}

func getSkillsOp(category SkillCategory) graphql.Operation {
	var vars map[string]any
	if category != "" {
		vars = map[string]any{"categorie": category}
	}
	return op("GetCompetences", `query GetCompetences($categorie: CategorieCompetence) {
  getCompetences(categorie: $categorie) {`+skillFields+` }
}`, vars)
}

func getSkillOp(id string) graphql.Operation {
	return op("GetCompetence", `query GetCompetence($id: ID!) {
  getCompetence(id: $id) {`+skillFields+` }
}`, idVars(id))
}

func getExperiencesOp() graphql.Operation {
	return op("GetExperiences", `query GetExperiences {
  getExperiences {`+experienceFields+` }
}`, nil)
}

func getExperienceOp(id string) graphql.Operation {
	return op("GetExperience", `query GetExperience($id: ID!) {
  getExperience(id: $id) {`+experienceFields+` }
}`, idVars(id))
}

// Auth

func loginOp(email, password string) graphql.Operation {
	return op("Login", `mutation Login($email: String!, $password: String!) {
  login(email: $email, password: $password) {`+authFields+` }
}`, map[string]any{"email": email, "password": password})
}

func registerOp(username, email, password string) graphql.Operation {
	return op("Register", `mutation Register($username: String!, $email: String!, $password: String!) {
  register(username: $username, email: $email, password: $password) {`+authFields+` }
}`, map[string]any{"username": username, "email": email, "password": password})
}

// Mutations

func createProfileOp(input ProfileInput) graphql.Operation {
	return op("CreateProfil", `mutation CreateProfil($input: ProfilInput!) {
  createProfil(input: $input) {`+profileFields+` }
}`, inputVars("", input))
}

func updateProfileOp(id string, input ProfileInput) graphql.Operation {
	return op("UpdateProfil", `mutation UpdateProfil($id: ID!, $input: ProfilInput!) {
  updateProfil(id: $id, input: $input) {`+profileFields+` }
}`, inputVars(id, input))
}

func createProjectOp(input ProjectInput) graphql.Operation {
	return op("CreateProjet", `mutation CreateProjet($input: ProjetInput!) {
  createProjet(input: $input) {`+projectFields+` }
}`, inputVars("", input))
}

func updateProjectOp(id string, input ProjectInput) graphql.Operation {
	return op("UpdateProjet", `mutation UpdateProjet($id: ID!, $input: ProjetInput!) {
  updateProjet(id: $id, input: $input) {`+projectFields+` }
}`, inputVars(id, input))
}

func deleteProjectOp(id string) graphql.Operation {
	return op("DeleteProjet", `mutation DeleteProjet($id: ID!) {
  deleteProjet(id: $id)
}`, idVars(id))
}

func createSkillOp(input SkillInput) graphql.Operation {
	return op("CreateCompetence", `mutation CreateCompetence($input: CompetenceInput!) {
  createCompetence(input: $input) {`+skillFields+` }
}`, inputVars("", input))
}

func updateSkillOp(id string, input SkillInput) graphql.Operation {
	return op("UpdateCompetence", `mutation UpdateCompetence($id: ID!, $input: CompetenceInput!) {
  updateCompetence(id: $id, input: $input) {`+skillFields+` }
}`, inputVars(id, input))
}

func deleteSkillOp(id string) graphql.Operation {
	return op("DeleteCompetence", `mutation DeleteCompetence($id: ID!) {
  deleteCompetence(id: $id)
}`, idVars(id))
}

func createExperienceOp(input ExperienceInput) graphql.Operation {
	return op("CreateExperience", `mutation CreateExperience($input: ExperienceInput!) {
  createExperience(input: $input) {`+experienceFields+` }
}`, inputVars("", input))
}

func updateExperienceOp(id string, input ExperienceInput) graphql.Operation {
	return op("UpdateExperience", `mutation UpdateExperience($id: ID!, $input: ExperienceInput!) {
  updateExperience(id: $id, input: $input) {`+experienceFields+` }
}`, inputVars(id, input))
}

func deleteExperienceOp(id string) graphql.Operation {
	return op("DeleteExperience", `mutation DeleteExperience($id: ID!) {
  deleteExperience(id: $id)
}`, idVars(id))
}

// PortfolioOperation is the home page query, exported for cache warming
func PortfolioOperation() graphql.Operation {
	return getPortfolioOp()
}
