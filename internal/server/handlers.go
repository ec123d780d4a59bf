package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/huangsam/trendbox/core"
	"github.com/huangsam/trendbox/internal/contract"
	"github.com/huangsam/trendbox/internal/outwriter"
	"github.com/huangsam/trendbox/internal/rows"
	"github.com/huangsam/trendbox/schema"
	"github.com/tidwall/gjson"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleFields describes the base field mapping and the metric definitions.
func (s *Server) handleFields(c *fiber.Ctx) error {
	return c.JSON(outwriter.BuildFieldsRenderModel(s.baseCfg))
}

// summaryHandler renders one variant from the request body. The body is any
// table shape the JSON adapter reads, optionally wrapped as
// {"rows": [...], "options": {...}}. Pipeline failures still answer 200 with
// the failed summary; only undecodable bodies and bad options answer 400.
func (s *Server) summaryHandler(variant schema.Variant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		body := c.Body()
		if !gjson.ValidBytes(body) {
			return fiber.NewError(fiber.StatusBadRequest, "request body is not valid JSON")
		}
		doc := gjson.ParseBytes(body)

		var overrides contract.Overrides
		if opts := doc.Get("options"); doc.IsObject() && opts.Exists() {
			if err := json.Unmarshal([]byte(opts.Raw), &overrides); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid options: %v", err))
			}
		}
		cfg, err := contract.ApplyOverrides(s.baseCfg, overrides)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid options: %v", err))
		}

		table, err := rows.FromJSON(doc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid rows: %v", err))
		}

		ctx := c.UserContext()
		if !c.QueryBool("record", true) {
			ctx = core.WithoutHistory(ctx)
		}
		summary, err := core.Summarize(ctx, table, cfg, s.mgr, variant)
		if err != nil {
			return err
		}

		s.metrics.Observe(summary, time.Since(start).Seconds())
		return c.JSON(summary)
	}
}
