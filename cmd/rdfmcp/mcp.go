// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kraklabs/rdfmcp/pkg/backend"
	"github.com/kraklabs/rdfmcp/pkg/prompts"
	"github.com/kraklabs/rdfmcp/pkg/resources"
	"github.com/kraklabs/rdfmcp/pkg/tools"
)

const (
	mcpServerName = "rdfmcp"
)

// newBackend constructs the configured backend. The local variant loads the
// store file before returning, so a bad file fails at startup.
func newBackend(ctx context.Context, cfg *Config) (backend.Backend, error) {
	switch cfg.Backend {
	case BackendLocal:
		return backend.NewLocal(ctx, cfg.Local.StorePath, cfg.Local.StoreFormat)
	case BackendRemote:
		return backend.NewRemote(cfg.Remote.ServerURL, cfg.Remote.Repository), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}
}

// runServe starts the MCP server on stdin/stdout. All logging goes to stderr;
// stdout carries the protocol.
func runServe(cfg *Config, debug bool) int {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          mcpServerName,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	ctx := context.Background()
	be, err := newBackend(ctx, cfg)
	if err != nil {
		logger.Error("backend startup failed", "err", err)
		return ExitBackend
	}
	defer be.Close()

	logger.Info("backend ready", "type", cfg.Backend, "repository", be.CurrentRepository())

	s := buildServer(cfg, be, logger)
	if err := server.ServeStdio(s); err != nil {
		logger.Error("server stopped", "err", err)
		return ExitGeneral
	}
	return ExitSuccess
}

// buildServer wires the tools, resources, and prompts onto an MCP server.
func buildServer(cfg *Config, be backend.Backend, logger *log.Logger) *server.MCPServer {
	s := server.NewMCPServer(mcpServerName, version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	registerTools(s, cfg, be, logger)
	registerResources(s, cfg, be, logger)
	registerPrompts(s, cfg, be)
	return s
}

// toolFunc is a tool handler without configured limits.
type toolFunc func(ctx context.Context, store tools.Store, args map[string]any) (*tools.ToolResult, error)

// limitedToolFunc is a tool handler that honors the configured limits.
type limitedToolFunc func(ctx context.Context, store tools.Store, args map[string]any, limits tools.Limits) (*tools.ToolResult, error)

func registerTools(s *server.MCPServer, cfg *Config, be backend.Backend, logger *log.Logger) {
	timeout := time.Duration(cfg.Query.TimeoutSeconds) * time.Second
	limits := tools.Limits{Default: cfg.Query.DefaultLimit, Max: cfg.Query.MaxLimit}

	adapt := func(name string, fn toolFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			result, err := fn(ctx, be, request.GetArguments())
			if err != nil {
				logger.Error("tool failed", "tool", name, "err", err)
				return mcp.NewToolResultError(err.Error()), nil
			}
			if result.IsError {
				logger.Debug("tool returned error", "tool", name, "msg", result.Text)
				return mcp.NewToolResultError(result.Text), nil
			}
			return mcp.NewToolResultText(result.Text), nil
		}
	}
	adaptLimited := func(name string, fn limitedToolFunc) server.ToolHandlerFunc {
		return adapt(name, func(ctx context.Context, store tools.Store, args map[string]any) (*tools.ToolResult, error) {
			return fn(ctx, store, args, limits)
		})
	}

	limitDesc := fmt.Sprintf("Maximum number of results (default %d, capped at %d)",
		cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	repoDesc := "Repository to target (optional, switches the active repository)"

	s.AddTool(mcp.NewTool("sparql_select",
		mcp.WithDescription("Execute a SPARQL SELECT query and return bindings as JSON. A LIMIT is appended when the query has none."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The SPARQL SELECT query")),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adaptLimited("sparql_select", tools.SparqlSelect))

	s.AddTool(mcp.NewTool("sparql_construct",
		mcp.WithDescription("Execute a SPARQL CONSTRUCT or DESCRIBE query and return the triples as Turtle."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The SPARQL CONSTRUCT or DESCRIBE query")),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adaptLimited("sparql_construct", tools.SparqlConstruct))

	s.AddTool(mcp.NewTool("sparql_ask",
		mcp.WithDescription("Execute a SPARQL ASK query and return the boolean result."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The SPARQL ASK query")),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adapt("sparql_ask", tools.SparqlAsk))

	s.AddTool(mcp.NewTool("describe_resource",
		mcp.WithDescription("Return every triple about an IRI: its outgoing triples plus, by default, the triples that point at it."),
		mcp.WithString("iri", mcp.Required(), mcp.Description("The resource IRI to describe")),
		mcp.WithBoolean("include_incoming", mcp.Description("Include triples with this IRI as object (default true)")),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adapt("describe_resource", tools.DescribeResource))

	s.AddTool(mcp.NewTool("search_classes",
		mcp.WithDescription("Find classes by a case-insensitive pattern over IRIs and labels. An empty pattern lists all classes."),
		mcp.WithString("pattern", mcp.Description("Substring to match against class IRIs and labels")),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adaptLimited("search_classes", tools.SearchClasses))

	s.AddTool(mcp.NewTool("search_properties",
		mcp.WithDescription("Find properties by pattern, optionally restricted to an exact rdfs:domain or rdfs:range IRI."),
		mcp.WithString("pattern", mcp.Description("Substring to match against property IRIs and labels")),
		mcp.WithString("domain", mcp.Description("Exact domain class IRI to require")),
		mcp.WithString("range", mcp.Description("Exact range IRI to require")),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adaptLimited("search_properties", tools.SearchProperties))

	s.AddTool(mcp.NewTool("find_instances",
		mcp.WithDescription("List instances of a class, sorted by IRI."),
		mcp.WithString("class_iri", mcp.Required(), mcp.Description("The class IRI")),
		mcp.WithNumber("limit", mcp.Description(limitDesc)),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adaptLimited("find_instances", tools.FindInstances))

	s.AddTool(mcp.NewTool("get_schema_summary",
		mcp.WithDescription("Return statistics, classes, properties, and namespaces of the repository in one call."),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adapt("get_schema_summary", tools.GetSchemaSummary))

	s.AddTool(mcp.NewTool("list_repositories",
		mcp.WithDescription("List the repositories available on the backend."),
	), adapt("list_repositories", tools.ListRepositories))

	s.AddTool(mcp.NewTool("get_namespaces",
		mcp.WithDescription("Return the namespace prefix bindings of the repository."),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adapt("get_namespaces", tools.GetNamespaces))

	s.AddTool(mcp.NewTool("get_statistics",
		mcp.WithDescription("Return statement, class, property, subject, and object counts for the repository."),
		mcp.WithString("repository_id", mcp.Description(repoDesc)),
	), adapt("get_statistics", tools.GetStatistics))

	s.AddTool(mcp.NewTool("select_repository",
		mcp.WithDescription("Switch the active repository for subsequent operations."),
		mcp.WithString("repository_id", mcp.Required(), mcp.Description("The repository id to select")),
	), adapt("select_repository", tools.SelectRepository))

	s.AddTool(mcp.NewTool("get_current_repository",
		mcp.WithDescription("Report the currently selected repository."),
	), adapt("get_current_repository", tools.GetCurrentRepository))
}

func registerResources(s *server.MCPServer, cfg *Config, be backend.Backend, logger *log.Logger) {
	timeout := time.Duration(cfg.Query.TimeoutSeconds) * time.Second

	s.AddResource(mcp.NewResource(resources.RepositoryListURI, "Repository list",
		mcp.WithResourceDescription("All repositories available on the backend"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		content, err := resources.RepositoryList(ctx, be)
		if err != nil {
			return nil, err
		}
		return jsonContents(resources.RepositoryListURI, content), nil
	})

	// Per-repository resources are registered from the catalog known at
	// startup. A backend that cannot list repositories yet still serves
	// the catalog resource above.
	startupCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	repos, err := be.ListRepositories(startupCtx)
	if err != nil {
		logger.Warn("cannot list repositories for resource registration", "err", err)
		return
	}

	kinds := []struct {
		kind, name, desc string
	}{
		{resources.KindSchema, "Schema", "Classes, properties, statistics, and namespaces"},
		{resources.KindNamespaces, "Namespaces", "Namespace prefix bindings"},
		{resources.KindStatistics, "Statistics", "Statement and term counts"},
	}
	for _, repo := range repos {
		for _, k := range kinds {
			uri := resources.RepositoryURI(repo.ID, k.kind)
			id, kind := repo.ID, k.kind
			s.AddResource(mcp.NewResource(uri, fmt.Sprintf("%s of %s", k.name, repo.ID),
				mcp.WithResourceDescription(k.desc),
				mcp.WithMIMEType("application/json"),
			), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				content, err := resources.Repository(ctx, be, id, kind)
				if err != nil {
					return nil, err
				}
				return jsonContents(uri, content), nil
			})
		}
	}
}

func jsonContents(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}
}

func registerPrompts(s *server.MCPServer, cfg *Config, be backend.Backend) {
	timeout := time.Duration(cfg.Query.TimeoutSeconds) * time.Second

	s.AddPrompt(mcp.NewPrompt("explore_knowledge_graph",
		mcp.WithPromptDescription("Guided exploration of a knowledge graph. Provides context about the schema and suggests exploration paths."),
		mcp.WithArgument("repository_id", mcp.ArgumentDescription("Repository to explore (optional, uses default)")),
		mcp.WithArgument("focus_area", mcp.ArgumentDescription("Specific class or concept to focus on (optional)")),
	), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		text, err := prompts.ExploreKnowledgeGraph(ctx, be,
			request.Params.Arguments["repository_id"],
			request.Params.Arguments["focus_area"])
		if err != nil {
			return nil, err
		}
		return userPrompt("Knowledge graph exploration context", text), nil
	})

	s.AddPrompt(mcp.NewPrompt("write_sparql_query",
		mcp.WithPromptDescription("Help write a SPARQL query from a natural language description. Provides schema context to assist with query construction."),
		mcp.WithArgument("question", mcp.ArgumentDescription("Natural language question to answer with SPARQL"), mcp.RequiredArgument()),
		mcp.WithArgument("repository_id", mcp.ArgumentDescription("Repository to query (optional, uses default)")),
	), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		question := request.Params.Arguments["question"]
		if question == "" {
			return nil, fmt.Errorf("missing required argument: question")
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		text, err := prompts.WriteSparqlQuery(ctx, be, question,
			request.Params.Arguments["repository_id"])
		if err != nil {
			return nil, err
		}
		return userPrompt("SPARQL query writing assistance", text), nil
	})

	s.AddPrompt(mcp.NewPrompt("explain_ontology",
		mcp.WithPromptDescription("Explain the structure and meaning of an ontology or schema. Describes classes, properties, and their relationships."),
		mcp.WithArgument("repository_id", mcp.ArgumentDescription("Repository containing the ontology (optional)")),
		mcp.WithArgument("focus_class", mcp.ArgumentDescription("Specific class IRI to explain (optional)")),
	), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		text, err := prompts.ExplainOntology(ctx, be,
			request.Params.Arguments["repository_id"],
			request.Params.Arguments["focus_class"])
		if err != nil {
			return nil, err
		}
		return userPrompt("Ontology explanation", text), nil
	})
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}
