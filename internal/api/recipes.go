package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/RowanDark/vigenere/internal/cipher"
	"github.com/RowanDark/vigenere/internal/logging"
)

// RecipeSaveRequest represents a request to save a recipe
type RecipeSaveRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Tags        []string                 `json:"tags,omitempty"`
	Operations  []cipher.OperationConfig `json:"operations"`
	Reversible  bool                     `json:"reversible"`
}

// RecipeRunRequest carries the input for a stored recipe.
type RecipeRunRequest struct {
	Input string `json:"input"`
}

func (s *Server) handleRecipeList(w http.ResponseWriter, r *http.Request) {
	recipes := s.recipes.ListRecipes()
	if q := r.URL.Query().Get("q"); q != "" {
		recipes = s.recipes.SearchRecipes(q)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (s *Server) handleRecipeSave(w http.ResponseWriter, r *http.Request) {
	var req RecipeSaveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	recipe := &cipher.Recipe{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Pipeline: cipher.Pipeline{
			Operations: req.Operations,
			Reversible: req.Reversible,
		},
	}
	if existing, ok := s.recipes.GetRecipe(req.Name); ok {
		recipe.CreatedAt = existing.CreatedAt
	}
	if err := s.recipes.SaveRecipe(recipe); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, cipher.ErrRecipeConflict) {
			status = http.StatusConflict
		}
		s.writeError(w, status, err.Error())
		return
	}

	_ = s.audit(r).Emit(logging.AuditEvent{
		EventType: logging.EventRecipeSaved,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"recipe": recipe.Name, "steps": len(recipe.Pipeline.Operations)},
	})
	s.writeJSON(w, http.StatusCreated, recipe)
}

func (s *Server) handleRecipeGet(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	recipe, ok := s.recipes.GetRecipe(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "recipe not found: "+name)
		return
	}
	s.writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleRecipeDelete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.recipes.DeleteRecipe(name); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cipher.ErrRecipeNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err.Error())
		return
	}
	_ = s.audit(r).Emit(logging.AuditEvent{
		EventType: logging.EventRecipeDeleted,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"recipe": name},
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecipeRun(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	recipe, ok := s.recipes.GetRecipe(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "recipe not found: "+name)
		return
	}

	var req RecipeRunRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	s.runPipeline(w, r, &recipe.Pipeline, recipe.Name, []byte(req.Input))
}
