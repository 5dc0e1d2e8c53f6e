package service

import (
	"context"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ProfileServiceName is the fully-qualified name of the profile service.
	ProfileServiceName = "orderwidget.v1.ProfileService"
	// OrderServiceName is the fully-qualified name of the order service.
	OrderServiceName = "orderwidget.v1.OrderService"
)

// Procedure paths. Every request and response body is a
// google.protobuf.Struct.
const (
	ProfileServiceIssueProfileProcedure = "/" + ProfileServiceName + "/IssueProfile"

	OrderServiceGetStateProcedure       = "/" + OrderServiceName + "/GetState"
	OrderServiceToggleAddedProcedure    = "/" + OrderServiceName + "/ToggleAdded"
	OrderServiceAdjustQuantityProcedure = "/" + OrderServiceName + "/AdjustQuantity"
	OrderServiceSelectPortionProcedure  = "/" + OrderServiceName + "/SelectPortion"
	OrderServiceToggleGroupProcedure    = "/" + OrderServiceName + "/ToggleGroup"
	OrderServiceSelectAreaProcedure     = "/" + OrderServiceName + "/SelectArea"
	OrderServiceUpdateContactProcedure  = "/" + OrderServiceName + "/UpdateContact"
	OrderServiceSubmitProcedure         = "/" + OrderServiceName + "/Submit"
)

type unaryFunc = func(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error)

// route builds one handler serving every procedure of a service.
func route(service string, procedures map[string]unaryFunc, opts ...connect.HandlerOption) (string, http.Handler) {
	handlers := make(map[string]*connect.Handler, len(procedures))
	for procedure, fn := range procedures {
		handlers[procedure] = connect.NewUnaryHandler(procedure, fn, opts...)
	}
	return "/" + service + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// NewProfileServiceHandler returns the mount path and handler of the
// profile service.
func NewProfileServiceHandler(svc *ProfileService, opts ...connect.HandlerOption) (string, http.Handler) {
	return route(ProfileServiceName, map[string]unaryFunc{
		ProfileServiceIssueProfileProcedure: svc.IssueProfile,
	}, opts...)
}

// NewOrderServiceHandler returns the mount path and handler of the order
// service.
func NewOrderServiceHandler(svc *OrderService, opts ...connect.HandlerOption) (string, http.Handler) {
	return route(OrderServiceName, map[string]unaryFunc{
		OrderServiceGetStateProcedure:       svc.GetState,
		OrderServiceToggleAddedProcedure:    svc.ToggleAdded,
		OrderServiceAdjustQuantityProcedure: svc.AdjustQuantity,
		OrderServiceSelectPortionProcedure:  svc.SelectPortion,
		OrderServiceToggleGroupProcedure:    svc.ToggleGroup,
		OrderServiceSelectAreaProcedure:     svc.SelectArea,
		OrderServiceUpdateContactProcedure:  svc.UpdateContact,
		OrderServiceSubmitProcedure:         svc.Submit,
	}, opts...)
}

// Client calls the procedures of both services.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	opts       []connect.ClientOption

	mu      sync.Mutex
	clients map[string]*connect.Client[structpb.Struct, structpb.Struct]
}

// NewClient creates a client for the server at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		opts:       opts,
		clients:    make(map[string]*connect.Client[structpb.Struct, structpb.Struct]),
	}
}

// Call invokes procedure with body. token, if set, is sent as the Bearer
// profile token.
func (c *Client) Call(ctx context.Context, procedure, token string, body map[string]any) (*structpb.Struct, error) {
	msg, err := structpb.NewStruct(body)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	client, ok := c.clients[procedure]
	if !ok {
		client = connect.NewClient[structpb.Struct, structpb.Struct](c.httpClient, c.baseURL+procedure, c.opts...)
		c.clients[procedure] = client
	}
	c.mu.Unlock()

	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	resp, err := client.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
