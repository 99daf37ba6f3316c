// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"

	"github.com/juju/cmd/v3/cmdtesting"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
)

type validateSuite struct {
	baseSuite

	server *httptest.Server
	charts int
}

var _ = gc.Suite(&validateSuite{})

func (s *validateSuite) SetUpTest(c *gc.C) {
	s.baseSuite.SetUpTest(c)
	s.charts = 2
	s.server = httptest.NewServer(http.HandlerFunc(s.serveSuperset))
	s.AddCleanup(func(*gc.C) { s.server.Close() })
}

func (s *validateSuite) serveSuperset(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html>Superset</html>")
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/security/login":
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "token"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/chart/":
		w.Header().Set("Content-Type", "application/json")
		result := make([]map[string]interface{}, s.charts)
		for i := range result {
			result[i] = map[string]interface{}{"id": i + 1, "slice_name": "chart", "viz_type": "table"}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"count": s.charts, "result": result})
	default:
		http.NotFound(w, r)
	}
}

// writeConfig points the harness at the test server's port.
func (s *validateSuite) writeConfig(c *gc.C) string {
	u, err := url.Parse(s.server.URL)
	c.Assert(err, jc.ErrorIsNil)
	path := filepath.Join(c.MkDir(), "harness.yaml")
	err = os.WriteFile(path, []byte("port: "+u.Port()+"\n"), 0644)
	c.Assert(err, jc.ErrorIsNil)
	return path
}

const localStatusYAML = `
model:
  name: test
  type: caas
applications:
  superset-k8s-ui:
    charm: superset-k8s
    application-status:
      current: active
    units:
      superset-k8s-ui/0:
        workload-status:
          current: active
        juju-status:
          current: idle
        leader: true
        address: 127.0.0.1
`

func (s *validateSuite) TestValidate(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju("status", "-m", "test", "--format", "yaml", "--utc").Return([]byte(localStatusYAML), nil)

	configFile := s.writeConfig(c)
	metricsFile := filepath.Join(c.MkDir(), "validate.prom")
	ctx, err := cmdtesting.RunCommand(c, newValidateCommand(s.env()),
		"-m", "test", "--config", configFile, "--metrics-file", metricsFile)
	c.Assert(err, jc.ErrorIsNil)

	u, _ := url.Parse(s.server.URL)
	c.Check(cmdtesting.Stdout(ctx), gc.Equals, fmt.Sprintf("http://127.0.0.1:%s serves 2 charts\n", u.Port()))

	data, err := os.ReadFile(metricsFile)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), jc.Contains, `superset_upgrade_http_requests_total{code="200",method="GET"} 2`)
	c.Check(string(data), jc.Contains, `superset_upgrade_http_requests_total{code="200",method="POST"} 1`)
	c.Check(string(data), jc.Contains, `superset_upgrade_step_duration_seconds_count{step="validate"} 1`)
}

func (s *validateSuite) TestValidateNoCharts(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.charts = 0
	s.expectJuju("status", "-m", "test", "--format", "yaml", "--utc").Return([]byte(localStatusYAML), nil)

	_, err := cmdtesting.RunCommand(c, newValidateCommand(s.env()), "-m", "test", "--config", s.writeConfig(c))
	c.Check(err, gc.ErrorMatches, `validate: http://127.0.0.1:\d+: no charts found`)
}
