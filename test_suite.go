package blog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

// DBSeeder loads the rows of a feature table into a store.
type DBSeeder interface {
	Seed(document string, data *godog.Table) error
}

// TestSuite drives an http.Handler (or a live BaseURL) from Gherkin steps.
type TestSuite struct {
	T         *testing.T
	Router    http.Handler
	Resp      *http.Response
	RespBody  []byte
	Storage   map[string]string
	BaseURL   string
	DbSeeders map[string]DBSeeder
}

type TestLogger struct {
	T *testing.T
}

func NewTestSuite(t *testing.T, router http.Handler) *TestSuite {
	return &TestSuite{
		T:         t,
		Router:    router,
		Storage:   make(map[string]string),
		DbSeeders: make(map[string]DBSeeder),
	}
}

func (ts *TestSuite) RegisterDBSeeder(document string, seeder DBSeeder) {
	ts.DbSeeders[document] = seeder
}

func (ts *TestSuite) SetBaseURL(baseURL string) {
	ts.BaseURL = baseURL
}

func (ts *TestSuite) InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		ts.Storage = make(map[string]string)
	})
}

func (ts *TestSuite) InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.BeforeScenario(func(sc *godog.Scenario) {
		ts.Resp = nil
		ts.RespBody = nil
	})

	ctx.Step(`^document "([^"]*)" has the following items$`, ts.documentHasTheFollowingItems)
	ctx.Step(`^I send a GET request to "([^"]*)"$`, ts.iSendAGETRequestTo)
	ctx.Step(`^I send a GET request to "([^"]*)" accepting "([^"]*)"$`, ts.iSendAGETRequestToAccepting)
	ctx.Step(`^the response status should be (\d+)$`, ts.theResponseStatusShouldBe)
	ctx.Step(`^the response body should contain "([^"]*)"$`, ts.theResponseBodyShouldContain)
	ctx.Step(`^the response body should not contain "([^"]*)"$`, ts.theResponseBodyShouldNotContain)
	ctx.Step(`^the response "([^"]*)" should list ids "([^"]*)"$`, ts.theResponseShouldListIds)
	ctx.Step(`^the response "([^"]*)" should contain an item with$`, ts.theResponseShouldContainAnItemWith)
}

func (ts *TestSuite) documentHasTheFollowingItems(document string, data *godog.Table) error {
	seeder, ok := ts.DbSeeders[document]
	if !ok {
		return fmt.Errorf("no seeder registered for document %s", document)
	}
	return seeder.Seed(document, data)
}

func (ts *TestSuite) iSendAGETRequestTo(path string) error {
	return ts.iSendAGETRequestToAccepting(path, "text/html")
}

func (ts *TestSuite) iSendAGETRequestToAccepting(path, accept string) error {
	req, err := http.NewRequest(http.MethodGet, ts.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", accept)

	if ts.BaseURL != "" {
		ts.Resp, err = http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
	} else {
		w := httptest.NewRecorder()
		ts.Router.ServeHTTP(w, req)
		ts.Resp = w.Result()
	}

	defer ts.Resp.Body.Close()
	ts.RespBody, err = io.ReadAll(ts.Resp.Body)
	return err
}

func (ts *TestSuite) theResponseStatusShouldBe(status int) error {
	if ts.Resp.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, ts.Resp.StatusCode, ts.RespBody)
	}
	return nil
}

func (ts *TestSuite) theResponseBodyShouldContain(text string) error {
	if !strings.Contains(string(ts.RespBody), text) {
		return fmt.Errorf("expected response body to contain %q", text)
	}
	return nil
}

func (ts *TestSuite) theResponseBodyShouldNotContain(text string) error {
	if strings.Contains(string(ts.RespBody), text) {
		return fmt.Errorf("expected response body not to contain %q", text)
	}
	return nil
}

// theResponseShouldListIds compares the ids of the JSON array under field
// with a comma separated list, in order. An empty list expects an empty array.
func (ts *TestSuite) theResponseShouldListIds(field, ids string) error {
	var payload map[string][]map[string]interface{}
	if err := json.Unmarshal(ts.RespBody, &payload); err != nil {
		return err
	}
	items, ok := payload[field]
	if !ok {
		return fmt.Errorf("field %s not found in response", field)
	}

	expected := []string{}
	if ids != "" {
		expected = strings.Split(ids, ",")
	}
	actual := make([]string, len(items))
	for i, item := range items {
		actual[i] = fmt.Sprintf("%v", item["id"])
	}

	if strings.Join(expected, ",") != strings.Join(actual, ",") {
		return fmt.Errorf("expected ids %v, got %v", expected, actual)
	}
	return nil
}

func (ts *TestSuite) theResponseShouldContainAnItemWith(field string, body *godog.Table) error {
	expected, err := parseDataTableRow(body)
	if err != nil {
		return err
	}

	var payload map[string]map[string]interface{}
	if err := json.Unmarshal(ts.RespBody, &payload); err != nil {
		return err
	}
	actual, ok := payload[field]
	if !ok {
		return fmt.Errorf("field %s not found in response", field)
	}

	for key, expectedValue := range expected {
		actualValue, ok := actual[key]
		if !ok {
			return fmt.Errorf("field %s.%s not found in response", field, key)
		}
		if fmt.Sprintf("%v", actualValue) != expectedValue {
			return fmt.Errorf("field %s.%s: expected %q, got %v", field, key, expectedValue, actualValue)
		}
	}
	return nil
}

func parseDataTableRow(body *godog.Table) (map[string]string, error) {
	if len(body.Rows) < 2 {
		return nil, fmt.Errorf("table must have at least two rows")
	}
	headers := body.Rows[0].Cells
	data := make(map[string]string)
	for j, cell := range body.Rows[1].Cells {
		data[headers[j].Value] = cell.Value
	}
	return data, nil
}

// TableRows turns a feature table into one map per data row keyed by header.
func TableRows(data *godog.Table) []map[string]string {
	if len(data.Rows) == 0 {
		return nil
	}
	headers := data.Rows[0].Cells
	rows := make([]map[string]string, 0, len(data.Rows)-1)
	for _, row := range data.Rows[1:] {
		values := make(map[string]string, len(row.Cells))
		for j, cell := range row.Cells {
			values[headers[j].Value] = cell.Value
		}
		rows = append(rows, values)
	}
	return rows
}

func (tl *TestLogger) Write(p []byte) (n int, err error) {
	if tl.T != nil {
		tl.T.Logf("%s", p)
	}
	return len(p), nil
}

// RunFeatures runs the feature files under paths against suite and fails t
// when any scenario fails.
func RunFeatures(t *testing.T, suite *TestSuite, paths ...string) {
	suite.T = t
	if len(paths) == 0 {
		paths = []string{"features"}
	}
	opts := godog.Options{
		Format:    "pretty",
		Output:    colors.Colored(&TestLogger{T: t}),
		Paths:     paths,
		Strict:    true,
		Randomize: 0,
	}

	status := godog.TestSuite{
		Name:                 "blog",
		TestSuiteInitializer: suite.InitializeTestSuite,
		ScenarioInitializer:  suite.InitializeScenario,
		Options:              &opts,
	}.Run()
	if status != 0 {
		t.Fatalf("feature run failed with status %d", status)
	}
}
