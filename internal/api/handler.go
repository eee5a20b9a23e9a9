package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ad-campaign-builder/internal/builder"
	"ad-campaign-builder/internal/catalog"
	"ad-campaign-builder/internal/keywords"
	"ad-campaign-builder/internal/observability"
	"ad-campaign-builder/internal/replies"
	"ad-campaign-builder/internal/storage"
	"ad-campaign-builder/internal/template"
	"ad-campaign-builder/internal/validate"
)

type Handler struct {
	Cat      *catalog.Catalog
	Sessions *replies.Sessions
	Store    *storage.Store // nil when running without a database
}

func NewHandler(cat *catalog.Catalog, sessions *replies.Sessions, store *storage.Store) *Handler {
	return &Handler{Cat: cat, Sessions: sessions, Store: store}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type hierarchyPreviewRequest struct {
	Campaign  builder.CampaignConfig  `json:"campaign"`
	Hierarchy builder.HierarchyConfig `json:"hierarchy"`
	Rows      []template.Row          `json:"rows"`
	Platforms int                     `json:"platforms"`
}

type hierarchyPreviewResponse struct {
	builder.BuildResult
	Platforms          int `json:"platforms"`
	ProjectedCampaigns int `json:"projected_campaigns"`
	ProjectedAdGroups  int `json:"projected_ad_groups"`
	ProjectedAds       int `json:"projected_ads"`
}

// PreviewHierarchy expands templates across the sample rows. The builder
// computes platform-agnostic structure once; the per-platform fan-out only
// scales the projected totals here.
func (h *Handler) PreviewHierarchy(w http.ResponseWriter, r *http.Request) {
	var req hierarchyPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Platforms < 1 {
		req.Platforms = 1
	}

	res := builder.Build(req.Campaign, req.Hierarchy, req.Rows)
	writeJSON(w, http.StatusOK, hierarchyPreviewResponse{
		BuildResult:        res,
		Platforms:          req.Platforms,
		ProjectedCampaigns: res.TotalCampaigns * req.Platforms,
		ProjectedAdGroups:  res.TotalAdGroups * req.Platforms,
		ProjectedAds:       res.TotalAds * req.Platforms,
	})
}

type keywordPreviewRequest struct {
	Rule      keywords.Rule `json:"rule"`
	CoreTerms []string      `json:"core_terms,omitempty"`
	Row       template.Row  `json:"row,omitempty"`
}

func (h *Handler) PreviewKeywords(w http.ResponseWriter, r *http.Request) {
	var req keywordPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var out []string
	if len(req.CoreTerms) > 0 {
		out = keywords.Generate(req.Rule.Prefixes, req.CoreTerms, req.Rule.Suffixes, req.Rule.Enabled)
	} else {
		out = keywords.Preview(req.Rule, req.Row)
	}
	writeJSON(w, http.StatusOK, map[string]any{"keywords": out, "count": len(out)})
}

type validateRequest struct {
	Subject     string                      `json:"subject"`
	Columns     []validate.ColumnDescriptor `json:"columns,omitempty"`
	ColumnSet   string                      `json:"column_set,omitempty"`
	Campaign    *builder.CampaignConfig     `json:"campaign,omitempty"`
	Hierarchy   *builder.HierarchyConfig    `json:"hierarchy,omitempty"`
	KeywordRule *keywords.Rule              `json:"keyword_rule,omitempty"`
	Thread      *validate.Thread            `json:"thread,omitempty"`
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cols := req.Columns
	if req.ColumnSet != "" {
		named, ok := h.Cat.ColumnSet(req.ColumnSet)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown column set "+req.ColumnSet)
			return
		}
		cols = named
	}

	var res validate.Result
	switch req.Subject {
	case "campaign":
		if req.Campaign == nil {
			writeError(w, http.StatusBadRequest, "missing campaign")
			return
		}
		res = validate.Campaign(*req.Campaign, cols)
	case "hierarchy":
		if req.Hierarchy == nil {
			writeError(w, http.StatusBadRequest, "missing hierarchy")
			return
		}
		res = validate.Hierarchy(*req.Hierarchy, cols)
	case "keyword_rule":
		if req.KeywordRule == nil {
			writeError(w, http.StatusBadRequest, "missing keyword_rule")
			return
		}
		res = validate.KeywordRule(*req.KeywordRule, cols)
	case "reply_thread":
		if req.Thread == nil {
			writeError(w, http.StatusBadRequest, "missing thread")
			return
		}
		res = validate.ReplyThread(*req.Thread)
	default:
		writeError(w, http.StatusBadRequest, "unknown subject "+req.Subject)
		return
	}

	if !res.Valid {
		observability.ValidationFailures.WithLabelValues(req.Subject).Inc()
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) OpenThread(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": h.Sessions.Open()})
}

func (h *Handler) CloseThread(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Close(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*replies.Session, bool) {
	sess, ok := h.Sessions.Get(chi.URLParam(r, "sid"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
	}
	return sess, ok
}

type addReplyRequest struct {
	ParentID *int64 `json:"parent_id"`
}

func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req addReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var id int64
	sess.With(func(m *replies.Manager) { id = m.Add(req.ParentID) })
	if id == 0 {
		// stale parent; nothing was created
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type updateReplyRequest struct {
	Body      *string `json:"body"`
	AuthorRef *string `json:"author_ref"`
}

func (h *Handler) UpdateReply(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reply id")
		return
	}
	var req updateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess.With(func(m *replies.Manager) { m.Update(id, req.Body, req.AuthorRef) })
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reply id")
		return
	}
	sess.With(func(m *replies.Manager) { m.Delete(id) })
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Index int `json:"index"`
}

func (h *Handler) ReorderReply(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reply id")
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess.With(func(m *replies.Manager) { m.Reorder(id, req.Index) })
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ThreadTree(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var tree []replies.TreeNode
	sess.With(func(m *replies.Manager) { tree = m.ToTree() })
	writeJSON(w, http.StatusOK, tree)
}

func (h *Handler) ThreadReplies(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	var nodes []replies.ReplyNode
	switch {
	case q.Get("parent_id") != "":
		id, err := strconv.ParseInt(q.Get("parent_id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid parent_id")
			return
		}
		sess.With(func(m *replies.Manager) { nodes = m.ChildrenOf(&id) })
	case q.Get("top") == "true":
		sess.With(func(m *replies.Manager) { nodes = m.ChildrenOf(nil) })
	default:
		sess.With(func(m *replies.Manager) { nodes = m.Nodes() })
	}
	if nodes == nil {
		nodes = []replies.ReplyNode{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

type reassignAuthorRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (h *Handler) ReassignAuthor(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req reassignAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.From == replies.DefaultAuthorID {
		writeError(w, http.StatusUnprocessableEntity, "default author cannot be reassigned away")
		return
	}
	if req.To == "" {
		req.To = replies.DefaultAuthorID
	}
	sess.With(func(m *replies.Manager) { m.ReassignAuthor(req.From, req.To) })
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListBlueprints(w http.ResponseWriter, _ *http.Request) {
	bps := h.Cat.Blueprints()
	if bps == nil {
		bps = []storage.BlueprintRow{}
	}
	writeJSON(w, http.StatusOK, bps)
}

func (h *Handler) SaveBlueprint(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	var bp storage.BlueprintRow
	if err := json.NewDecoder(r.Body).Decode(&bp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if bp.ID == "" || bp.Name == "" {
		writeError(w, http.StatusBadRequest, "blueprint id and name are required")
		return
	}
	if err := h.Store.SaveBlueprint(r.Context(), bp); err != nil {
		writeError(w, http.StatusInternalServerError, "save blueprint failed")
		return
	}
	w.WriteHeader(http.StatusCreated)
}
