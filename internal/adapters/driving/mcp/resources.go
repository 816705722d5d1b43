package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Inkwell resources.
	uriScheme = "inkwell://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing manuscript versions.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "versions",
		Name:        "versions",
		Description: "Imported manuscript versions with their chapter changes",
		MIMEType:    "application/json",
	}, s.handleVersionsResource)

	// Template for alert detail.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "alerts/{alertId}",
		Name:        "alert-detail",
		Description: "Full detail of a single alert",
		MIMEType:    "application/json",
	}, s.handleAlertResource)
}

// handleVersionsResource returns the project's version history.
func (s *Server) handleVersionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Versions == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	versions, err := s.ports.Versions.List(ctx, "default")
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}

	type versionInfo struct {
		Number   int    `json:"number"`
		Created  string `json:"created"`
		Chapters int    `json:"chapters"`
		Words    int    `json:"words"`
		Modified []int  `json:"modified,omitempty"`
		Added    []int  `json:"added,omitempty"`
		Deleted  []int  `json:"deleted,omitempty"`
	}

	infos := make([]versionInfo, len(versions))
	for i := range versions {
		v := &versions[i]
		infos[i] = versionInfo{
			Number:   v.Number,
			Created:  v.CreatedAt.Format("2006-01-02 15:04:05"),
			Chapters: len(v.ChapterHashes),
			Words:    v.WordCount,
			Modified: v.ModifiedChapters,
			Added:    v.AddedChapters,
			Deleted:  v.DeletedChapters,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling versions: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleAlertResource returns the full detail of one alert.
func (s *Server) handleAlertResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	alertID := extractAlertID(req.Params.URI)
	if alertID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	alert, err := s.ports.Alerts.Get(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("getting alert: %w", err)
	}

	data, err := json.MarshalIndent(alert, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling alert: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAlertID extracts the alert ID from a URI like inkwell://alerts/{alertId}.
func extractAlertID(uri string) string {
	const prefix = uriScheme + "alerts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
