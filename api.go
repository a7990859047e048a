package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"sessions-finder/fahrplan"
	"sessions-finder/store"
)

type eventsResponse struct {
	EventName            string                         `json:"event"`
	MainVersion          string                         `json:"mainVersion"`
	SelfOrganizedVersion string                         `json:"selfOrganizedVersion"`
	Events               []fahrplan.EventWithLiveStatus `json:"events"`
}

func registerAPI(app *fiber.App, cfg *Configuration, s *store.Store) {
	maxAge := int(cfg.ScheduleRefresh.Seconds())

	api := app.Group("/api")
	api.Get("/events", func(c *fiber.Ctx) error {
		snapshot, err := s.Current()
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		now := time.Now()
		filters, sortBy, direction := parseQuery(c, now)

		reference := now.Add(-fahrplan.Grace)
		rows := fahrplan.AnnotateLive(reference, snapshot.Events)
		rows = fahrplan.Filter(rows, filters)
		rows = fahrplan.Sort(rows, sortBy, direction)

		c.Set("Cache-Control", fmt.Sprintf("max-age=%d", maxAge))
		return c.JSON(eventsResponse{
			EventName:            cfg.EventName,
			MainVersion:          snapshot.MainVersion,
			SelfOrganizedVersion: snapshot.SelfOrganizedVersion,
			Events:               rows,
		})
	})
	api.Get("/all", func(c *fiber.Ctx) error {
		snapshot, err := s.Current()
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set("Cache-Control", fmt.Sprintf("max-age=%d", maxAge))
		return c.JSON(snapshot)
	})
	api.Get("/versions", func(c *fiber.Ctx) error {
		snapshot, err := s.Current()
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{
			"main":          snapshot.MainVersion,
			"selfOrganized": snapshot.SelfOrganizedVersion,
			"loadId":        snapshot.LoadID,
			"fetchedAt":     snapshot.FetchedAt,
		})
	})
}

// parseQuery builds the filter and sort configuration from the request,
// falling back to the same defaults the finder UI starts with.
func parseQuery(c *fiber.Ctx, now time.Time) (fahrplan.Filters, fahrplan.Field, fahrplan.SortDirection) {
	filters := fahrplan.DefaultFilters(now)

	if day, err := strconv.Atoi(c.Query("day")); err == nil {
		filters.Day = day
	}
	filters.Languages.EN = queryBool(c, "en", filters.Languages.EN)
	filters.Languages.DE = queryBool(c, "de", filters.Languages.DE)
	filters.Languages.Other = queryBool(c, "other", filters.Languages.Other)
	filters.ShowFinished = queryBool(c, "finished", filters.ShowFinished)
	filters.IncludeMainSessions = queryBool(c, "main", filters.IncludeMainSessions)
	filters.IncludeSelfOrganized = queryBool(c, "selfOrganized", filters.IncludeSelfOrganized)
	filters.TextFilter = c.Query("q")

	if raw := c.Query("fields"); raw != "" {
		var fields []fahrplan.Field
		for _, name := range strings.Split(raw, ",") {
			if field, ok := fahrplan.ParseField(strings.TrimSpace(name)); ok {
				fields = append(fields, field)
			}
		}
		if len(fields) > 0 {
			filters.Fields = fields
		}
	}

	sortBy := fahrplan.FieldDate
	if field, ok := fahrplan.ParseField(c.Query("sortBy")); ok {
		sortBy = field
	}
	direction := fahrplan.Ascending
	if strings.EqualFold(c.Query("sortDir"), "desc") {
		direction = fahrplan.Descending
	}
	return filters, sortBy, direction
}

func queryBool(c *fiber.Ctx, key string, fallback bool) bool {
	switch c.Query(key) {
	case "":
		return fallback
	case "true", "1":
		return true
	}
	return false
}
