package posting

import (
	"context"
	"fmt"
	"time"

	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/domain"
)

// Postable is a stored document the engine can post.
type Postable interface {
	Document
	entity.Validatable
	entity.Identifiable

	// Header exposes the shared document fields.
	Header() *entity.Document
	// Derive fills fields computed from stored data (totals) for responses.
	Derive()
}

// LineStore loads and saves the lines of documents that have them.
type LineStore[T any] interface {
	Load(ctx context.Context, docs []T) error
	Save(ctx context.Context, doc T) error
	Remove(ctx context.Context, docID int64) error
}

// WorkflowConfig configures a Workflow.
type WorkflowConfig[T Postable] struct {
	// Name is used in errors and logs, e.g. "purchase"
	Name string
	// NumberPrefix enables document numbering when set, e.g. "PUR"
	NumberPrefix string
	Repo         domain.HeaderRepository[T]
	// Lines is nil for documents without lines
	Lines  LineStore[T]
	Engine *Engine
}

// Workflow implements create, update and delete with full reversal for one
// document type. Every operation is one database transaction: header, lines,
// inventory, balances and journal commit together or not at all.
type Workflow[T Postable] struct {
	name   string
	prefix string
	repo   domain.HeaderRepository[T]
	lines  LineStore[T]
	engine *Engine
	hooks  *domain.HookRegistry[T]
	now    func() time.Time
}

// NewWorkflow creates a new document workflow.
func NewWorkflow[T Postable](cfg WorkflowConfig[T]) *Workflow[T] {
	return &Workflow[T]{
		name:   cfg.Name,
		prefix: cfg.NumberPrefix,
		repo:   cfg.Repo,
		lines:  cfg.Lines,
		engine: cfg.Engine,
		hooks:  domain.NewHookRegistry[T](),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Hooks returns the registry for document-specific checks. BeforeCreate and
// BeforeUpdate receive the new document, BeforeDelete the stored one; all run
// inside the transaction before anything is posted.
func (w *Workflow[T]) Hooks() *domain.HookRegistry[T] {
	return w.hooks
}

// Engine returns the posting engine.
func (w *Workflow[T]) Engine() *Engine {
	return w.engine
}

// Create stores the document and posts it.
func (w *Workflow[T]) Create(ctx context.Context, doc T) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := w.engine.Run(ctx, func(ctx context.Context) error {
		if err := w.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
			return err
		}

		h := doc.Header()
		h.StampCreated(w.now())
		if w.prefix != "" {
			number, err := w.engine.Number(ctx, w.prefix, h.Date)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			h.Number = number
		}

		if err := w.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create %s: %w", w.name, err)
		}
		if w.lines != nil {
			if err := w.lines.Save(ctx, doc); err != nil {
				return fmt.Errorf("save %s items: %w", w.name, err)
			}
		}
		return w.post(ctx, doc)
	})
	if err != nil {
		return err
	}

	doc.Derive()
	return nil
}

// Update reverses everything the stored document posted, then stores and posts
// the new version under the same ID, number and reference.
func (w *Workflow[T]) Update(ctx context.Context, doc T) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := w.engine.Run(ctx, func(ctx context.Context) error {
		old, err := w.load(ctx, doc.GetID(), true)
		if err != nil {
			return err
		}
		if err := w.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
			return err
		}

		if err := w.engine.Unpost(ctx, old); err != nil {
			return err
		}

		h, oh := doc.Header(), old.Header()
		h.Number = oh.Number
		h.CreatedAt = oh.CreatedAt
		h.StampUpdated(w.now())

		if err := w.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update %s: %w", w.name, err)
		}
		if w.lines != nil {
			if err := w.lines.Save(ctx, doc); err != nil {
				return fmt.Errorf("save %s items: %w", w.name, err)
			}
		}
		return w.post(ctx, doc)
	})
	if err != nil {
		return err
	}

	doc.Derive()
	return nil
}

func (w *Workflow[T]) post(ctx context.Context, doc T) error {
	if _, err := w.engine.Post(ctx, doc); err != nil {
		return err
	}
	if s, ok := any(doc).(Settling); ok && s.Settled() {
		if err := w.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("settle %s: %w", w.name, err)
		}
	}
	return nil
}

// Delete reverses the document's postings and removes it with its lines.
func (w *Workflow[T]) Delete(ctx context.Context, id int64) error {
	return w.engine.Run(ctx, func(ctx context.Context) error {
		old, err := w.load(ctx, id, true)
		if err != nil {
			return err
		}
		if err := w.hooks.Run(ctx, domain.BeforeDelete, old); err != nil {
			return err
		}
		if err := w.engine.Unpost(ctx, old); err != nil {
			return err
		}
		if w.lines != nil {
			if err := w.lines.Remove(ctx, id); err != nil {
				return fmt.Errorf("delete %s items: %w", w.name, err)
			}
		}
		if err := w.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", w.name, err)
		}
		return nil
	})
}

// GetByID returns the document with its lines.
func (w *Workflow[T]) GetByID(ctx context.Context, id int64) (T, error) {
	doc, err := w.load(ctx, id, false)
	if err != nil {
		return doc, err
	}
	doc.Derive()
	return doc, nil
}

// List returns a page of documents with their lines.
func (w *Workflow[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	res, err := w.repo.List(ctx, filter.Normalize())
	if err != nil {
		return res, err
	}
	if w.lines != nil && len(res.Items) > 0 {
		if err := w.lines.Load(ctx, res.Items); err != nil {
			return res, fmt.Errorf("load %s items: %w", w.name, err)
		}
	}
	for _, doc := range res.Items {
		doc.Derive()
	}
	return res, nil
}

func (w *Workflow[T]) load(ctx context.Context, id int64, lock bool) (T, error) {
	get := w.repo.GetByID
	if lock {
		get = w.repo.GetForUpdate
	}
	doc, err := get(ctx, id)
	if err != nil {
		return doc, err
	}
	if w.lines != nil {
		if err := w.lines.Load(ctx, []T{doc}); err != nil {
			return doc, fmt.Errorf("load %s items: %w", w.name, err)
		}
	}
	return doc, nil
}

// ItemLines adapts an ItemRepository to LineStore.
type ItemLines[T entity.Identifiable, I any] struct {
	Repo domain.ItemRepository[I]
	// Get and Set access the document's items
	Get func(doc T) []I
	Set func(doc T, items []I)
	// Owner returns the document ID an item belongs to
	Owner func(item I) int64
}

// Load implements LineStore.
func (l ItemLines[T, I]) Load(ctx context.Context, docs []T) error {
	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = d.GetID()
	}
	items, err := l.Repo.ListItems(ctx, ids)
	if err != nil {
		return err
	}
	grouped := make(map[int64][]I, len(docs))
	for _, it := range items {
		owner := l.Owner(it)
		grouped[owner] = append(grouped[owner], it)
	}
	for _, d := range docs {
		l.Set(d, grouped[d.GetID()])
	}
	return nil
}

// Save implements LineStore.
func (l ItemLines[T, I]) Save(ctx context.Context, doc T) error {
	return l.Repo.ReplaceItems(ctx, doc.GetID(), l.Get(doc))
}

// Remove implements LineStore.
func (l ItemLines[T, I]) Remove(ctx context.Context, docID int64) error {
	return l.Repo.DeleteItems(ctx, docID)
}
