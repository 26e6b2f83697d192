// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido deck tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/deckservice"
	"github.com/starford/raido/internal/models"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *deckservice.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *deckservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_decks",
		mcp.WithDescription("List all sections and their decks with card counts."),
	), s.listDecks)

	s.mcp.AddTool(mcp.NewTool("get_deck",
		mcp.WithDescription("Read a deck including all of its cards."),
		mcp.WithString("deck_id", mcp.Required(), mcp.Description("ID of the deck to read")),
	), s.getDeck)

	s.mcp.AddTool(mcp.NewTool("search_cards",
		mcp.WithDescription("Search card fronts, backs, and display IDs for a substring."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCards)

	s.mcp.AddTool(mcp.NewTool("export_anki",
		mcp.WithDescription("Export the selected decks as an Anki .apkg file. "+
			"deck_ids is a comma-separated list of deck IDs; the archive is "+
			"written to output_path."),
		mcp.WithString("deck_ids", mcp.Required(), mcp.Description("Comma-separated deck IDs to export")),
		mcp.WithString("output_path", mcp.Required(), mcp.Description("File path to write the .apkg archive to")),
	), s.exportAnki)

	// Resource: deck data contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://deck-format", "Deck Format Contract",
			mcp.WithResourceDescription("Canonical JSON shape of sections, decks, and cards."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDeckFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// deckSummary is the list_decks line item.
type deckSummary struct {
	SectionID    string `json:"sectionId"`
	SectionTitle string `json:"sectionTitle"`
	DeckID       string `json:"deckId"`
	DeckTitle    string `json:"deckTitle"`
	Cards        int    `json:"cards"`
}

func (s *Server) listDecks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sections, err := s.svc.Sections(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var out []deckSummary
	for _, sec := range sections {
		for _, d := range sec.Decks {
			out = append(out, deckSummary{
				SectionID:    sec.ID,
				SectionTitle: sec.Title,
				DeckID:       d.ID,
				DeckTitle:    d.Title,
				Cards:        len(d.Cards),
			})
		}
	}
	text, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(text)), nil
}

func (s *Server) getDeck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deckID, err := req.RequireString("deck_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	deck, err := s.svc.Deck(ctx, deckID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, _ := json.MarshalIndent(deck, "", "  ")
	return mcp.NewToolResultText(string(text)), nil
}

// cardHit is one search_cards result.
type cardHit struct {
	DeckID    string `json:"deckId"`
	DeckTitle string `json:"deckTitle"`
	CardID    string `json:"cardId"`
	DisplayID string `json:"displayId"`
	Front     string `json:"front"`
}

func (s *Server) searchCards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sections, err := s.svc.Sections(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	needle := strings.ToLower(query)
	var hits []cardHit
	for _, sec := range sections {
		for _, d := range sec.Decks {
			for _, c := range d.Cards {
				if cardMatches(c, needle) {
					hits = append(hits, cardHit{
						DeckID:    d.ID,
						DeckTitle: d.Title,
						CardID:    c.ID,
						DisplayID: c.DisplayID,
						Front:     c.Front,
					})
				}
			}
		}
	}
	text, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(text)), nil
}

func cardMatches(c models.Card, needle string) bool {
	return strings.Contains(strings.ToLower(c.Front), needle) ||
		strings.Contains(strings.ToLower(c.Back), needle) ||
		strings.Contains(strings.ToLower(c.DisplayID), needle)
}

func (s *Server) exportAnki(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawIDs, err := req.RequireString("deck_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputPath, err := req.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var deckIDs []string
	for _, id := range strings.Split(rawIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			deckIDs = append(deckIDs, id)
		}
	}

	sections, err := s.svc.Sections(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	archivePath, cleanup, err := s.svc.ExportAnki(ctx, sections, deckIDs, "export")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer cleanup()

	if err := copyFile(archivePath, outputPath); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("exported %d deck(s) to %s", len(deckIDs), outputPath)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (s *Server) readDeckFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://deck-format",
			MIMEType: "text/markdown",
			Text:     DeckFormatContract,
		},
	}, nil
}
