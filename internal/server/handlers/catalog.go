package handlers

import (
	"net/http"

	"github.com/gridlot/mastermatch/internal/server/cache"
	"github.com/gridlot/mastermatch/internal/server/response"
	"github.com/gridlot/mastermatch/pkg/catalog"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/normalize"
)

// Listing is the payload of the candidate listing endpoints.
type Listing struct {
	Generation uint64   `json:"generation"`
	Items      []string `json:"items"`
	Count      int      `json:"count"`
}

func newListing(generation uint64, candidates []catalog.Candidate) Listing {
	items := catalog.Displays(candidates)
	return Listing{Generation: generation, Items: items, Count: len(items)}
}

// HandleListMakes handles GET {prefix}/makes.
func (h *Handlers) HandleListMakes(w http.ResponseWriter, _ *http.Request) {
	snap, err := h.client.Snapshot()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	gen := snap.Generation()
	listing := h.cache.GetOrLoad(cache.Key(gen, "makes"), func() any {
		return newListing(gen, snap.Index().CandidatesForMake())
	})
	response.OK(w, listing)
}

// HandleListModels handles GET {prefix}/makes/{make}/models. The make is
// looked up by its normalized form, so "MERCEDES-benz" finds
// "Mercedes-Benz".
func (h *Handlers) HandleListModels(w http.ResponseWriter, _ *http.Request, makeName string) {
	snap, err := h.client.Snapshot()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	mk := normalize.String(makeName)
	models, ok := snap.Index().ModelsOf(mk)
	if !ok {
		response.ErrorFromType(w, errors.NewNotFoundError("make", makeName))
		return
	}

	gen := snap.Generation()
	listing := h.cache.GetOrLoad(cache.Key(gen, "models", mk), func() any {
		return newListing(gen, models)
	})
	response.OK(w, listing)
}

// HandleListVariants handles GET {prefix}/makes/{make}/models/{model}/variants.
func (h *Handlers) HandleListVariants(w http.ResponseWriter, _ *http.Request, makeName, modelName string) {
	snap, err := h.client.Snapshot()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	mk, md := normalize.String(makeName), normalize.String(modelName)
	if !snap.Index().HasMake(mk) {
		response.ErrorFromType(w, errors.NewNotFoundError("make", makeName))
		return
	}
	variants, ok := snap.Index().VariantsOf(mk, md)
	if !ok {
		response.ErrorFromType(w, errors.NewNotFoundError("model", modelName))
		return
	}

	gen := snap.Generation()
	listing := h.cache.GetOrLoad(cache.Key(gen, "variants", mk, md), func() any {
		return newListing(gen, variants)
	})
	response.OK(w, listing)
}
