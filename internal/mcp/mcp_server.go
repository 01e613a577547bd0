// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/geotrend/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the geotrend MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Geotrend Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_snapshot ---
	s.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Read the stored demographic and economic snapshot of a geography."),
		mcp.WithString("geo_id", mcp.Description("Geography identifier, e.g. a county FIPS code."), mcp.Required()),
		mcp.WithString("asof", mcp.Description("Snapshot date as YYYY-MM-DD (defaults to the configured as-of date).")),
	), h.handleGetSnapshot)

	// --- 2. Tool: compare_snapshots ---
	s.AddTool(mcp.NewTool("compare_snapshots",
		mcp.WithDescription("Compare the stored snapshots of several geographies against the first one."),
		mcp.WithArray("geo_ids", mcp.Description("Two or more geography identifiers; the first is the baseline."), mcp.Required(), mcp.WithStringItems()),
		mcp.WithString("asof", mcp.Description("Snapshot date as YYYY-MM-DD.")),
	), h.handleCompareSnapshots)

	// --- 3. Tool: forecast_series ---
	s.AddTool(mcp.NewTool("forecast_series",
		mcp.WithDescription("Forecast a metric of a geography with double exponential smoothing."),
		mcp.WithString("geo_id", mcp.Description("Geography identifier."), mcp.Required()),
		mcp.WithString("metric", mcp.Description("Metric code (HH_INCOME_MEDIAN, INCOME_PER_CAPITA, AGE_MEDIAN, POP_TOTAL, NET_MIGRATION_18_34, EMP_TOTAL or EMP_<naics>).")),
		mcp.WithNumber("periods", mcp.Description("Number of years to forecast.")),
		mcp.WithNumber("alpha", mcp.Description("Level smoothing factor in [0,1].")),
		mcp.WithNumber("beta", mcp.Description("Trend smoothing factor in [0,1].")),
		mcp.WithString("asof", mcp.Description("Last year of history as YYYY-MM-DD.")),
	), h.handleForecastSeries)

	// --- 4. Tool: analyze_migration ---
	s.AddTool(mcp.NewTool("analyze_migration",
		mcp.WithDescription("Analyze the net migration signal of the 18-34 age cohort of a geography."),
		mcp.WithString("geo_id", mcp.Description("Geography identifier."), mcp.Required()),
		mcp.WithNumber("year", mcp.Description("Reference year (defaults to the as-of year).")),
	), h.handleAnalyzeMigration)

	// --- 5. Tool: calculate_cagr ---
	s.AddTool(mcp.NewTool("calculate_cagr",
		mcp.WithDescription("Calculate the compound annual growth rate between two values."),
		mcp.WithNumber("start_value", mcp.Description("Value at the start of the period."), mcp.Required()),
		mcp.WithNumber("end_value", mcp.Description("Value at the end of the period."), mcp.Required()),
		mcp.WithNumber("years", mcp.Description("Number of years between the values."), mcp.Required()),
	), h.handleCalculateCAGR)

	return s
}

// StartMCPServer starts the geotrend MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
