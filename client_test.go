package creatorinsight

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

const testCSV = `name,category,followers,engagement_rate,avg_likes,avg_comments
Alice,fashion,5000,0.02,100,10
Bea,fashion,50000,0.08,900,80
Cid,tech,9000,0.05,300,30
`

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func loadTestCSV(t *testing.T, c *Client) Dataset {
	t.Helper()
	ds, err := c.LoadCSV(context.Background(), "creators.csv", strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	return ds
}

func TestClient_LoadAndQuery(t *testing.T) {
	c := newTestClient(t)
	ds := loadTestCSV(t, c)

	if ds.Rows != 3 || ds.SkippedRows != 0 {
		t.Fatalf("unexpected dataset summary: %+v", ds)
	}

	res, err := c.Query(context.Background(), ds.ID, "fashion creators with more than 10,000 followers")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if res.Source != "heuristic" {
		t.Errorf("source: got %q", res.Source)
	}
	if res.Filter.Category != "fashion" {
		t.Errorf("filter category: got %q", res.Filter.Category)
	}
	if res.Filter.MinFollowers == nil || *res.Filter.MinFollowers != 10000 {
		t.Errorf("filter min followers: got %v", res.Filter.MinFollowers)
	}
	if res.Total != 1 || len(res.Results) != 1 {
		t.Fatalf("expected exactly one match, got %+v", res)
	}
	if res.Results[0].Name != "Bea" {
		t.Errorf("expected Bea, got %s", res.Results[0].Name)
	}
	if res.Results[0].Score <= 0 {
		t.Errorf("expected a positive score, got %g", res.Results[0].Score)
	}
}

func TestClient_QueryUnknownDataset(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Query(context.Background(), "nope", "anything")
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound, got %v", err)
	}
}

func TestClient_QueryWeighted_Invalid(t *testing.T) {
	c := newTestClient(t)
	ds := loadTestCSV(t, c)

	_, err := c.QueryWeighted(context.Background(), ds.ID, "anything", Weights{Engagement: -1})
	if err == nil {
		t.Error("expected an error for negative weights")
	}
}

func TestClient_QueryWeighted_FollowersOnly(t *testing.T) {
	c := newTestClient(t)
	ds := loadTestCSV(t, c)

	res, err := c.QueryWeighted(context.Background(), ds.ID, "", Weights{Followers: 1})
	if err != nil {
		t.Fatalf("QueryWeighted: %v", err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("empty query must match everything, got %d", len(res.Results))
	}
	for i, want := range []string{"Bea", "Cid", "Alice"} {
		if res.Results[i].Name != want {
			t.Errorf("position %d: got %s, want %s", i, res.Results[i].Name, want)
		}
	}
}

func TestClient_MaxResults(t *testing.T) {
	c := newTestClient(t, WithMaxResults(2))
	ds := loadTestCSV(t, c)

	res, err := c.Query(context.Background(), ds.ID, "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.Total != 3 || len(res.Results) != 2 {
		t.Errorf("expected total 3 truncated to 2, got total=%d len=%d", res.Total, len(res.Results))
	}
}

func TestClient_DatasetsAndDelete(t *testing.T) {
	c := newTestClient(t)
	ds := loadTestCSV(t, c)

	list, err := c.Datasets(context.Background())
	if err != nil {
		t.Fatalf("Datasets: %v", err)
	}
	if len(list) != 1 || list[0].ID != ds.ID {
		t.Errorf("unexpected list: %+v", list)
	}

	if err := c.DeleteDataset(context.Background(), ds.ID); err != nil {
		t.Fatalf("DeleteDataset: %v", err)
	}
	if err := c.DeleteDataset(context.Background(), ds.ID); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound, got %v", err)
	}
}

func TestClient_History(t *testing.T) {
	c := newTestClient(t)
	ds := loadTestCSV(t, c)

	for _, q := range []string{"tech creators", "fashion creators"} {
		if _, err := c.Query(context.Background(), ds.ID, q); err != nil {
			t.Fatalf("Query %q: %v", q, err)
		}
	}

	entries, err := c.History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Query != "tech creators" || entries[1].Query != "fashion creators" {
		t.Errorf("history must be oldest first: %+v", entries)
	}
	if entries[0].Weights.Engagement != 0.5 {
		t.Errorf("expected default weights logged, got %+v", entries[0].Weights)
	}
}

func TestClient_ExportCSV(t *testing.T) {
	c := newTestClient(t)
	ds := loadTestCSV(t, c)

	var buf bytes.Buffer
	if err := c.ExportCSV(context.Background(), &buf, ds.ID, ""); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], ",score") {
		t.Errorf("expected score column, header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Bea,") {
		t.Errorf("expected Bea ranked first, got %s", lines[1])
	}
}

func TestClient_LoadCSV_Malformed(t *testing.T) {
	c := newTestClient(t)

	_, err := c.LoadCSV(context.Background(), "bad.csv", strings.NewReader("followers\n100"))
	if !errors.Is(err, ErrMalformedDataset) {
		t.Errorf("expected ErrMalformedDataset, got %v", err)
	}
}
