// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package jujucli_test

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/canonical/superset-k8s-upgrade/core/status"
	"github.com/canonical/superset-k8s-upgrade/internal/cmdrunner"
	"github.com/canonical/superset-k8s-upgrade/internal/cmdrunner/mocks"
	"github.com/canonical/superset-k8s-upgrade/internal/model"
	"github.com/canonical/superset-k8s-upgrade/internal/model/jujucli"
	coretesting "github.com/canonical/superset-k8s-upgrade/testing"
)

type baseSuite struct {
	testing.IsolationSuite

	runner *mocks.MockRunner
}

func (s *baseSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.runner = mocks.NewMockRunner(ctrl)
	return ctrl
}

func (s *baseSuite) config(c *gc.C) jujucli.Config {
	return jujucli.Config{
		Runner:     s.runner,
		Logger:     coretesting.NewCheckLogger(c),
		Controller: "microk8s",
	}
}

func (s *baseSuite) newModel(c *gc.C) *jujucli.Model {
	m, err := jujucli.NewModel(s.config(c), "test-upgrade")
	c.Assert(err, jc.ErrorIsNil)
	return m
}

func (s *baseSuite) expectJuju(args ...string) *gomock.Call {
	return s.runner.EXPECT().Run(gomock.Any(), cmdrunner.Command{
		Name: "juju",
		Args: args,
	})
}

type modelSuite struct {
	baseSuite
}

var _ = gc.Suite(&modelSuite{})

func (s *modelSuite) TestNewModelValidates(c *gc.C) {
	_, err := jujucli.NewModel(jujucli.Config{}, "test")
	c.Check(err, gc.ErrorMatches, `nil Runner not valid`)

	defer s.setupMocks(c).Finish()
	_, err = jujucli.NewModel(s.config(c), "")
	c.Check(err, gc.ErrorMatches, `empty model name not valid`)
}

func (s *modelSuite) TestDeploy(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju(
		"deploy", "-m", "microk8s:test-upgrade", "superset-k8s", "superset-k8s-ui",
		"--channel", "stable", "--trust",
		"--config", "load-examples=True",
		"--config", "superset-secret-key=secret",
		"--resource", "superset-image=ghcr.io/canonical/charmed-superset-rock:3.0.1",
	).Return(nil, nil)

	err := s.newModel(c).Deploy(context.Background(), model.DeployArgs{
		CharmName:       "superset-k8s",
		ApplicationName: "superset-k8s-ui",
		Channel:         "stable",
		Trust:           true,
		Config: map[string]string{
			"superset-secret-key": "secret",
			"load-examples":       "True",
		},
		Resources: map[string]string{
			"superset-image": "ghcr.io/canonical/charmed-superset-rock:3.0.1",
		},
	})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *modelSuite) TestDeployRevisionAndUnits(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju(
		"deploy", "-m", "microk8s:test-upgrade", "redis-k8s",
		"--channel", "edge", "--revision", "7", "-n", "3",
	).Return(nil, nil)

	err := s.newModel(c).Deploy(context.Background(), model.DeployArgs{
		CharmName:       "redis-k8s",
		ApplicationName: "redis-k8s",
		Channel:         "edge",
		Revision:        7,
		NumUnits:        3,
	})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *modelSuite) TestDeployInvalidArgs(c *gc.C) {
	defer s.setupMocks(c).Finish()

	err := s.newModel(c).Deploy(context.Background(), model.DeployArgs{})
	c.Check(err, gc.ErrorMatches, `empty charm name not valid`)
}

func (s *modelSuite) TestDeployFailure(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju("deploy", "-m", "microk8s:test-upgrade", "postgresql-k8s", "--channel", "nope").
		Return(nil, &cmdrunner.ExitError{Command: "juju deploy", ExitCode: 1, Stderr: "channel not found"})

	err := s.newModel(c).Deploy(context.Background(), model.DeployArgs{
		CharmName: "postgresql-k8s",
		Channel:   "nope",
	})
	c.Check(err, gc.ErrorMatches, `deploying "postgresql-k8s": juju deploy exited with code 1: channel not found`)
	_, ok := cmdrunner.AsExitError(err)
	c.Check(ok, jc.IsTrue)
}

func (s *modelSuite) refreshArgs() model.RefreshArgs {
	return model.RefreshArgs{
		ApplicationName: "superset-k8s-ui",
		Path:            "/src/superset-k8s_ubuntu-22.04-amd64.charm",
		Resources: map[string]string{
			"superset-image": "ghcr.io/canonical/charmed-superset-rock:3.0.1",
		},
		Config: map[string]string{
			"superset-secret-key": "secret",
			"load-examples":       "False",
		},
	}
}

func (s *modelSuite) TestRefreshWithConfig(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.expectJuju("version").Return([]byte("3.4.2-genericlinux-amd64\n"), nil),
		s.expectJuju(
			"refresh", "-m", "microk8s:test-upgrade", "superset-k8s-ui",
			"--path", "/src/superset-k8s_ubuntu-22.04-amd64.charm",
			"--resource", "superset-image=ghcr.io/canonical/charmed-superset-rock:3.0.1",
			"--config", "load-examples=False",
			"--config", "superset-secret-key=secret",
		).Return(nil, nil),
	)

	err := s.newModel(c).Refresh(context.Background(), s.refreshArgs())
	c.Assert(err, jc.ErrorIsNil)
}

func (s *modelSuite) TestRefreshWithConfigLegacyClient(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.expectJuju("version").Return([]byte("2.9.45-ubuntu-amd64\n"), nil),
		s.expectJuju(
			"refresh", "-m", "microk8s:test-upgrade", "superset-k8s-ui",
			"--path", "/src/superset-k8s_ubuntu-22.04-amd64.charm",
			"--resource", "superset-image=ghcr.io/canonical/charmed-superset-rock:3.0.1",
		).Return(nil, nil),
		s.expectJuju(
			"config", "-m", "microk8s:test-upgrade", "superset-k8s-ui",
			"load-examples=False", "superset-secret-key=secret",
		).Return(nil, nil),
	)

	err := s.newModel(c).Refresh(context.Background(), s.refreshArgs())
	c.Assert(err, jc.ErrorIsNil)
}

func (s *modelSuite) TestRefreshFailureSkipsConfig(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.expectJuju("version").Return([]byte("2.9.45-ubuntu-amd64\n"), nil),
		s.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, errors.New("charm not found")),
	)

	err := s.newModel(c).Refresh(context.Background(), s.refreshArgs())
	c.Check(err, gc.ErrorMatches, `refreshing "superset-k8s-ui": charm not found`)
}

func (s *modelSuite) TestRefreshFromChannel(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju("refresh", "-m", "microk8s:test-upgrade", "redis-k8s", "--channel", "edge").Return(nil, nil)

	err := s.newModel(c).Refresh(context.Background(), model.RefreshArgs{
		ApplicationName: "redis-k8s",
		Channel:         "edge",
	})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *modelSuite) TestIntegrateUsesVersionOnce(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.expectJuju("version").Return([]byte("3.4.2-genericlinux-amd64\n"), nil),
		s.expectJuju("integrate", "-m", "microk8s:test-upgrade", "superset-k8s-ui:postgresql_db", "postgresql-k8s:database").Return(nil, nil),
		s.expectJuju("integrate", "-m", "microk8s:test-upgrade", "superset-k8s-ui:redis", "redis-k8s").Return(nil, nil),
	)

	m := s.newModel(c)
	err := m.Integrate(context.Background(), "superset-k8s-ui:postgresql_db", "postgresql-k8s:database")
	c.Assert(err, jc.ErrorIsNil)
	err = m.Integrate(context.Background(), "superset-k8s-ui:redis", "redis-k8s")
	c.Assert(err, jc.ErrorIsNil)
}

func (s *modelSuite) TestIntegrateLegacyClient(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.expectJuju("version").Return([]byte("2.9.45-ubuntu-amd64\n"), nil),
		s.expectJuju("relate", "-m", "microk8s:test-upgrade", "superset-k8s-ui", "redis-k8s").Return(nil, nil),
	)

	err := s.newModel(c).Integrate(context.Background(), "superset-k8s-ui", "redis-k8s")
	c.Assert(err, jc.ErrorIsNil)
}

func (s *modelSuite) TestIntegrateBadVersion(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju("version").Return([]byte("banana\n"), nil)

	err := s.newModel(c).Integrate(context.Background(), "a", "b")
	c.Check(err, gc.ErrorMatches, `parsing juju client version "banana": .*`)
}

func (s *modelSuite) TestModelConfig(c *gc.C) {
	defer s.setupMocks(c).Finish()

	gomock.InOrder(
		s.expectJuju("model-config", "-m", "microk8s:test-upgrade", "update-status-hook-interval").
			Return([]byte("5m\n"), nil),
		s.expectJuju("model-config", "-m", "microk8s:test-upgrade", "update-status-hook-interval=10s").
			Return(nil, nil),
	)

	m := s.newModel(c)
	value, err := m.ModelConfig(context.Background(), "update-status-hook-interval")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(value, gc.Equals, "5m")

	err = m.SetModelConfig(context.Background(), map[string]string{"update-status-hook-interval": "10s"})
	c.Assert(err, jc.ErrorIsNil)
}

func (s *modelSuite) TestSetConfigEmptyIsNoop(c *gc.C) {
	defer s.setupMocks(c).Finish()

	err := s.newModel(c).SetConfig(context.Background(), "superset-k8s-ui", nil)
	c.Assert(err, jc.ErrorIsNil)
}

const statusYAML = `
model:
  name: test-upgrade
  type: caas
  controller: microk8s
applications:
  postgresql-k8s:
    charm: postgresql-k8s
    charm-channel: 14/stable
    charm-rev: 193
    scale: 1
    application-status:
      current: active
      message: Primary
      since: 16 Oct 2026 09:58:01Z
    relations:
      database:
      - related-application: superset-k8s-ui
        interface: postgresql_client
        scope: global
    units:
      postgresql-k8s/0:
        workload-status:
          current: active
          message: Primary
          since: 16 Oct 2026 09:58:01Z
        juju-status:
          current: idle
          since: 16 Oct 2026 09:59:30Z
          version: 3.4.2
        leader: true
        address: 10.1.32.7
  superset-k8s-ui:
    charm: superset-k8s
    charm-channel: latest/stable
    charm-rev: 19
    scale: 1
    application-status:
      current: blocked
      message: waiting for redis relation
    relations:
      postgresql_db:
      - postgresql-k8s
    units:
      superset-k8s-ui/0:
        workload-status:
          current: blocked
          message: waiting for redis relation
          since: 16 Oct 2026 10:00:00Z
        juju-status:
          current: executing
          message: running config-changed hook
          since: 16 Oct 2026 10:00:05Z
        leader: true
        address: 10.1.32.9
`

func (s *modelSuite) TestStatus(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju("status", "-m", "microk8s:test-upgrade", "--format", "yaml", "--utc").
		Return([]byte(statusYAML), nil)

	st, err := s.newModel(c).Status(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(st.Name, gc.Equals, "test-upgrade")
	c.Check(st.Type, gc.Equals, "caas")
	c.Assert(st.Applications, gc.HasLen, 2)

	pg, err := st.Application("postgresql-k8s")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(pg.CharmChannel, gc.Equals, "14/stable")
	c.Check(pg.CharmRev, gc.Equals, 193)
	c.Check(pg.Relations, jc.DeepEquals, map[string][]string{"database": {"superset-k8s-ui"}})

	unit, err := st.Unit("postgresql-k8s", 0)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(unit.WorkloadStatus.Status, gc.Equals, status.Active)
	c.Check(unit.AgentStatus.Status, gc.Equals, status.Idle)
	c.Assert(unit.AgentStatus.Since, gc.NotNil)
	c.Check(*unit.AgentStatus.Since, gc.Equals, time.Date(2026, 10, 16, 9, 59, 30, 0, time.UTC))
	c.Check(unit.Address, gc.Equals, "10.1.32.7")
	c.Check(unit.Leader, jc.IsTrue)

	ui, err := st.Application("superset-k8s-ui")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(ui.Charm, gc.Equals, "superset-k8s")
	c.Check(ui.Status.Status, gc.Equals, status.Blocked)
	c.Check(ui.Status.Since, gc.IsNil)
	c.Check(ui.Relations, jc.DeepEquals, map[string][]string{"postgresql_db": {"postgresql-k8s"}})
	c.Check(ui.Units["superset-k8s-ui/0"].AgentStatus.Message, gc.Equals, "running config-changed hook")
}

func (s *modelSuite) TestStatusUnknownUnitStatus(c *gc.C) {
	defer s.setupMocks(c).Finish()

	for _, test := range []struct {
		workload, agent string
		err             string
	}{{
		workload: "idle",
		agent:    "idle",
		err:      `unit "redis-k8s/0": workload status "idle" not valid`,
	}, {
		workload: "active",
		agent:    "active",
		err:      `unit "redis-k8s/0": agent status "active" not valid`,
	}} {
		data := fmt.Sprintf(`
model:
  name: test-upgrade
applications:
  redis-k8s:
    charm: redis-k8s
    units:
      redis-k8s/0:
        workload-status:
          current: %s
        juju-status:
          current: %s
`, test.workload, test.agent)
		s.expectJuju("status", "-m", "microk8s:test-upgrade", "--format", "yaml", "--utc").
			Return([]byte(data), nil)

		_, err := s.newModel(c).Status(context.Background())
		c.Check(err, gc.ErrorMatches, `parsing status of model "test-upgrade": `+test.err)
	}
}

func (s *modelSuite) TestStatusEmptyModel(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju("status", "-m", "microk8s:test-upgrade", "--format", "yaml", "--utc").
		Return([]byte("model:\n  type: caas\napplications: {}\n"), nil)

	st, err := s.newModel(c).Status(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(st.Name, gc.Equals, "test-upgrade")
	c.Check(st.Applications, gc.HasLen, 0)
}

func (s *modelSuite) TestStatusBadRelations(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju("status", "-m", "microk8s:test-upgrade", "--format", "yaml", "--utc").
		Return([]byte("applications:\n  a:\n    relations:\n      db: b\n"), nil)

	_, err := s.newModel(c).Status(context.Background())
	c.Check(err, gc.ErrorMatches, `parsing status of model "test-upgrade": application "a" endpoint "db": relation of kind .* not valid`)
}

func (s *modelSuite) TestStatusFailure(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectJuju("status", "-m", "microk8s:test-upgrade", "--format", "yaml", "--utc").
		Return(nil, errors.New("connection refused"))

	_, err := s.newModel(c).Status(context.Background())
	c.Check(err, gc.ErrorMatches, `getting status of model "test-upgrade": connection refused`)
}
