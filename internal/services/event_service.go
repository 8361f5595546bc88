package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "arbor/internal/errors"
	"arbor/internal/models"
	"arbor/internal/pagination"
	"arbor/internal/rules"
)

// eventService handles event-logging business logic.
type eventService struct {
	db         *gorm.DB
	categories CategoryServicer
	attributes AttributeServicer
}

// NewEventService creates a new EventServicer.
func NewEventService(db *gorm.DB, categories CategoryServicer, attributes AttributeServicer) EventServicer {
	return &eventService{db: db, categories: categories, attributes: attributes}
}

// CreateEvent logs an event against a leaf category. Attribute values
// are validated against the definitions of the whole selection path
// (ancestors included) and stored as typed EAV rows in one transaction.
func (s *eventService) CreateEvent(categoryID, eventDate string, sessionStart *time.Time, comment *string, attrs []AttributeInput) (*models.Event, error) {
	if _, err := time.Parse("2006-01-02", eventDate); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "event date must be YYYY-MM-DD")
	}

	leaf, err := s.categories.IsLeaf(categoryID)
	if err != nil {
		return nil, err
	}
	if !leaf {
		return nil, apperrors.ErrNotLeafCategory
	}

	path, err := s.categories.GetAncestorPath(categoryID)
	if err != nil {
		return nil, err
	}
	pathIDs := make([]string, len(path))
	for i, c := range path {
		pathIDs[i] = c.ID
	}
	defs, err := s.attributes.GetChainAttributes(pathIDs)
	if err != nil {
		return nil, err
	}

	values, err := buildAttributeValues(defs, attrs)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		CategoryID:   categoryID,
		EventDate:    eventDate,
		SessionStart: sessionStart,
		Comment:      comment,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		for i := range values {
			values[i].EventID = event.ID
			if err := tx.Create(&values[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	event.Attributes = values
	return event, nil
}

// buildAttributeValues validates the supplied inputs against the path's
// definitions and converts them into typed EAV rows.
func buildAttributeValues(defs []models.AttributeDefinition, attrs []AttributeInput) ([]models.EventAttribute, error) {
	slugs := make([]string, len(defs))
	for i, d := range defs {
		slugs[i] = d.Slug
	}

	seen := make(map[string]bool, len(attrs))
	values := make([]models.EventAttribute, 0, len(attrs))
	for _, in := range attrs {
		idx, ok := rules.FindBySlug(slugs, in.Slug)
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrAttributeNotFound, "unknown attribute: "+in.Slug)
		}
		def := defs[idx]
		if seen[def.ID] {
			return nil, apperrors.WithMessage(apperrors.ErrDuplicateAttribute, "attribute supplied more than once: "+def.Slug)
		}
		seen[def.ID] = true

		if in.Value == nil {
			continue
		}
		row, err := typedValue(def, in.Value)
		if err != nil {
			return nil, err
		}
		values = append(values, row)
	}

	for _, def := range defs {
		if def.IsRequired && !seen[def.ID] {
			return nil, apperrors.WithMessage(apperrors.ErrAttributeRequired, "missing required attribute: "+def.Slug)
		}
	}
	return values, nil
}

// typedValue converts a loosely-typed input into the EAV row matching
// the definition's data type, enforcing enum restrictions for text
// attributes.
func typedValue(def models.AttributeDefinition, v any) (models.EventAttribute, error) {
	row := models.EventAttribute{AttributeDefinitionID: def.ID}

	switch def.DataType {
	case models.DataTypeNumber:
		var n float64
		switch t := v.(type) {
		case float64:
			n = t
		case int:
			n = float64(t)
		case int64:
			n = float64(t)
		default:
			return row, apperrors.WithMessage(apperrors.ErrInvalidAttribute, def.Slug+" must be a number")
		}
		row.ValueNumber = &n

	case models.DataTypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return row, apperrors.WithMessage(apperrors.ErrInvalidAttribute, def.Slug+" must be a boolean")
		}
		row.ValueBoolean = &b

	case models.DataTypeDatetime:
		s, ok := v.(string)
		if !ok {
			return row, apperrors.WithMessage(apperrors.ErrInvalidAttribute, def.Slug+" must be an RFC 3339 timestamp")
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return row, apperrors.WithMessage(apperrors.ErrInvalidAttribute, def.Slug+" must be an RFC 3339 timestamp")
		}
		row.ValueDatetime = &t

	case models.DataTypeText, models.DataTypeLink, models.DataTypeImage:
		s, ok := v.(string)
		if !ok {
			return row, apperrors.WithMessage(apperrors.ErrInvalidAttribute, def.Slug+" must be a string")
		}
		if def.DataType == models.DataTypeText {
			opts := rules.Parse([]byte(def.ValidationRules))
			if opts.Kind == rules.KindEnum && !opts.AllowOther && !contains(opts.Options, s) {
				return row, apperrors.WithMessage(apperrors.ErrInvalidEnumOption, def.Slug+": "+s)
			}
		}
		row.ValueText = &s

	default:
		return row, apperrors.WithMessage(apperrors.ErrInvalidAttribute, "unknown data type for "+def.Slug)
	}
	return row, nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// GetEventByID retrieves an event with its attribute values and their
// definitions.
func (s *eventService) GetEventByID(eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.db.
		Preload("Category").
		Preload("Attributes").
		Preload("Attributes.Definition").
		Where("id = ?", eventID).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &event, nil
}

// GetEvents retrieves a filtered, paginated event list, newest first.
// An area filter matches every category in the area; a category filter
// widens to the category's whole subtree.
func (s *eventService) GetEvents(page pagination.PageRequest, filter EventFilter) (*pagination.PageResponse[models.Event], error) {
	page.Defaults()

	base := s.db.Model(&models.Event{})

	if filter.CategoryID != nil {
		ids, err := s.categories.GetDescendantIDs(*filter.CategoryID)
		if err != nil {
			return nil, err
		}
		base = base.Where("category_id IN ?", ids)
	} else if filter.AreaID != nil {
		base = base.Where("category_id IN (?)",
			s.db.Model(&models.Category{}).Select("id").Where("area_id = ?", *filter.AreaID))
	}
	if filter.DateFrom != nil {
		base = base.Where("event_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		base = base.Where("event_date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		base = base.Where("comment LIKE ?", "%"+filter.Search+"%")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var events []models.Event
	if err := base.
		Preload("Category").
		Order("event_date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(events, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateEventComment replaces an event's comment. A nil comment clears it.
func (s *eventService) UpdateEventComment(eventID string, comment *string) (*models.Event, error) {
	event, err := s.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(event).Update("comment", comment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return event, nil
}

// DeleteEvent soft-deletes an event and its attribute values.
func (s *eventService) DeleteEvent(eventID string) error {
	event, err := s.GetEventByID(eventID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventAttribute{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(event).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
