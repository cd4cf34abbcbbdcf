// Package graphql exposes the account operations as a GraphQL schema.
package graphql

import (
	"log/slog"
	"time"

	"identity/internal/domain/entity"
	"identity/internal/errors"
	"identity/internal/usecase"

	"github.com/graphql-go/graphql"
	"go.uber.org/fx"
)

// SchemaParams holds dependencies for the schema resolvers, injected by Fx.
type SchemaParams struct {
	fx.In

	AuthUsecase usecase.AuthUsecase
	Logger      *slog.Logger
}

type resolver struct {
	auth   usecase.AuthUsecase
	logger *slog.Logger
}

// NewSchema builds the executable schema:
//
//	type Query    { users: [User!]! }
//	type Mutation {
//	  register(email: String!, password: String!, name: String): User!
//	  login(email: String!, password: String!): String
//	  loginWithBiometrics(biometricToken: String!): String
//	}
//
// login and loginWithBiometrics resolve to null on any authentication failure.
func NewSchema(params SchemaParams) (graphql.Schema, error) {
	r := &resolver{
		auth:   params.AuthUsecase,
		logger: params.Logger,
	}

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: userField(func(u *entity.User) any { return u.ID.String() }),
			},
			"email": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: userField(func(u *entity.User) any { return u.Email }),
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: userField(func(u *entity.User) any {
					if u.Name == "" {
						return nil
					}

					return u.Name
				}),
			},
			"createdAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: userField(func(u *entity.User) any { return u.CreatedAt.UTC().Format(time.RFC3339) }),
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: r.users,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":     &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.register,
			},
			"login": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.login,
			},
			"loginWithBiometrics": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"biometricToken": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.loginWithBiometrics,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
	if err != nil {
		return graphql.Schema{}, errors.Wrap(err, "failed to build GraphQL schema")
	}

	return schema, nil
}

func userField(get func(*entity.User) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		user, ok := p.Source.(*entity.User)
		if !ok || user == nil {
			return nil, nil
		}

		return get(user), nil
	}
}

func (r *resolver) users(p graphql.ResolveParams) (any, error) {
	users, err := r.auth.ListUsers(p.Context)
	if err != nil {
		return nil, r.fail(p.Context, "users", err)
	}

	return users, nil
}

func (r *resolver) register(p graphql.ResolveParams) (any, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)
	name, _ := p.Args["name"].(string)

	user, err := r.auth.Register(p.Context, &usecase.RegisterInput{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		return nil, r.fail(p.Context, "register", err)
	}

	return user, nil
}

func (r *resolver) login(p graphql.ResolveParams) (any, error) {
	email, _ := p.Args["email"].(string)
	password, _ := p.Args["password"].(string)

	token, err := r.auth.Login(p.Context, &usecase.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, r.fail(p.Context, "login", err)
	}

	return nullableToken(token), nil
}

func (r *resolver) loginWithBiometrics(p graphql.ResolveParams) (any, error) {
	biometricToken, _ := p.Args["biometricToken"].(string)

	token, err := r.auth.LoginWithBiometricToken(p.Context, biometricToken)
	if err != nil {
		return nil, r.fail(p.Context, "loginWithBiometrics", err)
	}

	return nullableToken(token), nil
}

// nullableToken avoids handing graphql-go a typed nil pointer.
func nullableToken(token *string) any {
	if token == nil {
		return nil
	}

	return *token
}
