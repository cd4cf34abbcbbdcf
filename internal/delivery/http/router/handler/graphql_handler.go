// Package handler contains the echo handlers mounted by the router.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"identity/config"
	deliverycontext "identity/internal/delivery/context"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// GraphQLHandlerParams holds dependencies for GraphQLHandler, injected by Fx.
type GraphQLHandlerParams struct {
	fx.In

	Schema graphql.Schema
	Config *config.Config
	Logger *slog.Logger
}

// GraphQLHandler executes GraphQL requests against the account schema.
type GraphQLHandler struct {
	schema     graphql.Schema
	playground bool
	logger     *slog.Logger
}

// NewGraphQLHandler creates a new GraphQLHandler instance
func NewGraphQLHandler(params GraphQLHandlerParams) *GraphQLHandler {
	playground := false
	if params.Config != nil && params.Config.GraphQL != nil {
		playground = params.Config.GraphQL.Playground
	}

	return &GraphQLHandler{
		schema:     params.Schema,
		playground: playground,
		logger:     params.Logger,
	}
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Execute serves POST /graphql with a JSON body and GET /graphql with query parameters.
// Execution errors are reported in the GraphQL errors array with status 200.
func (h *GraphQLHandler) Execute(c echo.Context) error {
	req, err := h.bindRequest(c)
	if err != nil {
		return err
	}

	if req.Query == "" {
		if c.Request().Method == http.MethodGet && h.playground {
			return c.HTML(http.StatusOK, playgroundHTML)
		}

		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	if c.Request().Method == http.MethodGet && isMutation(req) {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, "mutations require POST")
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request().Context(),
	})
	if result.HasErrors() {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Debug("GraphQL request returned errors",
			slog.String("operationName", req.OperationName),
			slog.Int("errors", len(result.Errors)),
		)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *GraphQLHandler) bindRequest(c echo.Context) (*graphQLRequest, error) {
	req := &graphQLRequest{}

	if c.Request().Method == http.MethodGet {
		req.Query = c.QueryParam("query")
		req.OperationName = c.QueryParam("operationName")
		if raw := c.QueryParam("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "variables must be a JSON object")
			}
		}

		return req, nil
	}

	if err := c.Bind(req); err != nil {
		return nil, err
	}

	return req, nil
}

// isMutation reports whether the operation selected by req is a mutation.
// Unparseable documents are left for graphql.Do to report.
func isMutation(req *graphQLRequest) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return false
	}

	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if req.OperationName != "" && (op.Name == nil || op.Name.Value != req.OperationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}

	return false
}

const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
  <title>GraphiQL</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql/graphiql.min.css" />
</head>
<body style="margin: 0;">
  <div id="graphiql" style="height: 100vh;"></div>
  <script crossorigin src="https://unpkg.com/react/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: '/graphql' });
    ReactDOM.render(React.createElement(GraphiQL, { fetcher }), document.getElementById('graphiql'));
  </script>
</body>
</html>`
