package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/geotrend/core"
	"github.com/huangsam/geotrend/internal/contract"
	"github.com/huangsam/geotrend/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// resultCapture is a ResultWriter that keeps the last result instead of printing it.
type resultCapture struct {
	value any
}

var _ contract.ResultWriter = &resultCapture{}

func (c *resultCapture) WriteBatchReport(report schema.BatchReport, _ *contract.Config, _ time.Duration) error {
	c.value = report
	return nil
}

func (c *resultCapture) WriteSnapshots(snapshots []schema.SnapshotMetrics, _ *contract.Config) error {
	c.value = snapshots
	return nil
}

func (c *resultCapture) WriteComparison(result schema.ComparisonResult, _ *contract.Config) error {
	c.value = result
	return nil
}

func (c *resultCapture) WriteForecast(result schema.ForecastResult, _ *contract.Config) error {
	c.value = result
	return nil
}

func (c *resultCapture) WriteMigration(result schema.MigrationResult, _ *contract.Config) error {
	c.value = result
	return nil
}

func (c *resultCapture) WriteCAGR(result schema.CAGRSummary, _ *contract.Config) error {
	c.value = result
	return nil
}

// jsonResult renders a captured value as the tool's text content.
func jsonResult(value any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateGeoIDs(cfg, request.GetString("geo_id", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid snapshot parameters: %v", err)), nil
	}
	if err := contract.RevalidateAsOf(cfg, request.GetString("asof", ""), 0); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid snapshot parameters: %v", err)), nil
	}

	capture := &resultCapture{}
	if err := core.ExecuteSnapshotShow(ctx, cfg, h.mgr, capture); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot lookup failed: %v", err)), nil
	}
	snapshots, _ := capture.value.([]schema.SnapshotMetrics)
	if len(snapshots) == 0 {
		return mcp.NewToolResultError("snapshot lookup failed: no snapshot found"), nil
	}
	return jsonResult(snapshots[0])
}

func (h *toolHandler) handleCompareSnapshots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateGeoIDs(cfg, request.GetStringSlice("geo_ids", nil)...); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}
	if err := contract.RevalidateAsOf(cfg, request.GetString("asof", ""), 0); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}

	capture := &resultCapture{}
	if err := core.ExecuteSnapshotCompare(ctx, cfg, h.mgr, capture); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(capture.value)
}

func (h *toolHandler) handleForecastSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateGeoIDs(cfg, request.GetString("geo_id", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid forecast parameters: %v", err)), nil
	}
	if err := contract.RevalidateAsOf(cfg, request.GetString("asof", ""), 0); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid forecast parameters: %v", err)), nil
	}
	err := contract.RevalidateForecast(cfg,
		request.GetString("metric", string(cfg.Metric)),
		request.GetInt("periods", cfg.Periods),
		request.GetFloat("alpha", cfg.Alpha),
		request.GetFloat("beta", cfg.Beta),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid forecast parameters: %v", err)), nil
	}

	capture := &resultCapture{}
	if err := core.ExecuteForecast(ctx, cfg, h.mgr, capture); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("forecast failed: %v", err)), nil
	}
	return jsonResult(capture.value)
}

func (h *toolHandler) handleAnalyzeMigration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateGeoIDs(cfg, request.GetString("geo_id", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid migration parameters: %v", err)), nil
	}
	if err := contract.RevalidateAsOf(cfg, "", request.GetInt("year", 0)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid migration parameters: %v", err)), nil
	}

	capture := &resultCapture{}
	if err := core.ExecuteMigration(ctx, cfg, h.mgr, capture); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("migration analysis failed: %v", err)), nil
	}
	return jsonResult(capture.value)
}

func (h *toolHandler) handleCalculateCAGR(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	years := request.GetInt("years", 0)
	start := request.GetFloat("start_value", 0)
	end := request.GetFloat("end_value", 0)
	return jsonResult(core.SummarizeCAGR(start, end, years))
}
