package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/w-h-a/docchat/vectorindex"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type qdrantIndex struct {
	options vectorindex.Options
	client  *http.Client
}

func (i *qdrantIndex) EnsureCollection(ctx context.Context) error {
	exists, err := i.collectionExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		slog.InfoContext(ctx, "collection already exists", "collection", i.options.Collection)
		return nil
	}

	err = i.createCollection(ctx)

	var se *statusError
	if errors.As(err, &se) && se.Code == http.StatusConflict {
		slog.InfoContext(ctx, "collection already exists", "collection", i.options.Collection)
		return nil
	}

	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "created collection", "collection", i.options.Collection, "size", i.options.VectorSize, "distance", i.options.Distance)

	return nil
}

func (i *qdrantIndex) Upsert(ctx context.Context, points []vectorindex.Point) error {
	if len(points) == 0 {
		return nil
	}

	qpoints := make([]qdrantPoint, 0, len(points))
	for _, p := range points {
		qpoints = append(qpoints, qdrantPoint{
			Id:      p.Id,
			Vector:  p.Vector,
			Payload: p.Payload,
		})
	}

	req := map[string]any{
		"points": qpoints,
	}

	var rsp qdrantEnvelope[json.RawMessage]

	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(i.options.Collection))

	if err := i.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func (i *qdrantIndex) Search(ctx context.Context, vector []float32, topK int) ([]vectorindex.Match, error) {
	if topK < 1 {
		return nil, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}

	var rsp qdrantEnvelope[[]qdrantScoredPoint]

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(i.options.Collection))

	if err := i.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, 0, len(rsp.Result))

	for _, point := range rsp.Result {
		matches = append(matches, vectorindex.Match{
			Id:      point.pointId(),
			Score:   float32(point.Score),
			Payload: point.Payload,
		})
	}

	return matches, nil
}

func (i *qdrantIndex) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := i.options.Location + path
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")

	if len(i.options.ApiKey) > 0 {
		request.Header.Set("api-key", i.options.ApiKey)
	}

	response, err := i.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return &statusError{Code: response.StatusCode, Body: string(payload)}
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func (i *qdrantIndex) collectionExists(ctx context.Context) (bool, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(i.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	err := i.do(ctx, http.MethodGet, path, nil, &rsp)

	var se *statusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return strings.EqualFold(rsp.Status.State, "ok"), nil
}

func (i *qdrantIndex) createCollection(ctx context.Context) error {
	req := map[string]any{
		"vectors": map[string]any{
			"size":     i.options.VectorSize,
			"distance": i.options.Distance,
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(i.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	if err := i.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func NewIndex(opts ...vectorindex.Option) vectorindex.Index {
	options := vectorindex.NewOptions(opts...)

	if len(options.Location) == 0 ||
		len(options.Collection) == 0 ||
		options.VectorSize == 0 {
		panic("missing location, collection, or vector size for qdrant index")
	}

	options.Location = strings.TrimRight(options.Location, "/")

	client := &http.Client{
		Timeout:   options.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	i := &qdrantIndex{
		options: options,
		client:  client,
	}

	return i
}
