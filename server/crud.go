package server

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	store "github.com/tsubame-dev/store-api"
	"github.com/tsubame-dev/store-api/repository"
)

// CrudController translates HTTP requests into generic-store calls for
// one entity. T is the record struct; the repository works on *T.
type CrudController[T any] struct {
	repo   repository.Repository[*T]
	entity string
	getID  func(*T) int64
	logger store.Logger
	sink   store.ActivitySink
}

// RegisterCrud mounts the standard routes for one entity under path.
// Extra middleware (auth) runs before every handler.
func RegisterCrud[T any](router fiber.Router, path, entity string, repo repository.Repository[*T], getID func(*T) int64, logger store.Logger, sink store.ActivitySink, middleware ...fiber.Handler) *CrudController[T] {
	ctrl := &CrudController[T]{
		repo:   repo,
		entity: entity,
		getID:  getID,
		logger: logger,
		sink:   store.NormalizeActivitySink(sink),
	}

	group := router.Group(path, middleware...)
	group.Get("/", ctrl.List)
	group.Get("/:id", ctrl.Get)
	group.Post("/", ctrl.Create)
	group.Put("/:id", ctrl.Update)
	group.Delete("/:id", ctrl.Delete)

	return ctrl
}

func (ctrl *CrudController[T]) notFoundMessage() string {
	return ctrl.entity + " not found"
}

// List handles GET /: skip and limit come from the query string, every
// other query parameter is treated as an exact-match filter.
func (ctrl *CrudController[T]) List(c *fiber.Ctx) error {
	criteria := repository.ListCriteria{
		Skip:  c.QueryInt("skip", 0),
		Limit: c.QueryInt("limit", repository.DefaultLimit),
	}

	for key, value := range c.Queries() {
		if key == "skip" || key == "limit" || value == "" {
			continue
		}
		if criteria.Filters == nil {
			criteria.Filters = map[string]any{}
		}
		criteria.Filters[key] = value
	}

	records, err := ctrl.repo.List(c.UserContext(), criteria)
	if err != nil {
		return err
	}

	return c.JSON(records)
}

func (ctrl *CrudController[T]) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return repository.NotFoundError(ctrl.notFoundMessage())
	}

	record, err := ctrl.repo.GetOrFail(c.UserContext(), int64(id), ctrl.notFoundMessage())
	if err != nil {
		return err
	}

	return c.JSON(record)
}

func (ctrl *CrudController[T]) Create(c *fiber.Ctx) error {
	record := new(T)
	if err := c.BodyParser(record); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid request body")
	}

	created, err := ctrl.repo.Create(c.UserContext(), record)
	if err != nil {
		return err
	}

	ctrl.emit(c, store.ActivityEventRecordCreated, ctrl.getID(created), nil)

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *CrudController[T]) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return repository.NotFoundError(ctrl.notFoundMessage())
	}

	patch := map[string]any{}
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid request body")
	}

	updated, err := ctrl.repo.Update(c.UserContext(), int64(id), patch, ctrl.notFoundMessage())
	if err != nil {
		return err
	}

	fields := make([]string, 0, len(patch))
	for key := range patch {
		fields = append(fields, key)
	}
	ctrl.emit(c, store.ActivityEventRecordUpdated, int64(id), map[string]any{"fields": fields})

	return c.JSON(updated)
}

func (ctrl *CrudController[T]) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return repository.NotFoundError(ctrl.notFoundMessage())
	}

	if _, err := ctrl.repo.Delete(c.UserContext(), int64(id), ctrl.notFoundMessage()); err != nil {
		return err
	}

	ctrl.emit(c, store.ActivityEventRecordDeleted, int64(id), nil)

	return c.JSON(fiber.Map{"message": ctrl.entity + " deleted successfully"})
}

func (ctrl *CrudController[T]) emit(c *fiber.Ctx, eventType store.ActivityEventType, id int64, metadata map[string]any) {
	event := store.ActivityEvent{
		EventType:  eventType,
		Entity:     ctrl.entity,
		EntityID:   id,
		Actor:      sessionActor(c),
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if err := ctrl.sink.Record(c.UserContext(), event); err != nil {
		ctrl.logger.Warn("activity sink record error: %v", err)
	}
}
