// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package model_test

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/canonical/superset-k8s-upgrade/core/status"
	"github.com/canonical/superset-k8s-upgrade/internal/model"
	"github.com/canonical/superset-k8s-upgrade/internal/model/mocks"
)

type modelSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&modelSuite{})

func (s *modelSuite) TestDeployArgsApplication(c *gc.C) {
	args := model.DeployArgs{CharmName: "superset-k8s"}
	c.Check(args.Application(), gc.Equals, "superset-k8s")
	args.ApplicationName = "superset-k8s-ui"
	c.Check(args.Application(), gc.Equals, "superset-k8s-ui")
}

func (s *modelSuite) TestDeployArgsValidate(c *gc.C) {
	c.Check(model.DeployArgs{CharmName: "redis-k8s", Channel: "edge"}.Validate(), jc.ErrorIsNil)

	for _, t := range []struct {
		args model.DeployArgs
		err  string
	}{{
		args: model.DeployArgs{},
		err:  `empty charm name not valid`,
	}, {
		args: model.DeployArgs{CharmName: "redis-k8s", ApplicationName: "Redis"},
		err:  `application name "Redis" not valid`,
	}, {
		args: model.DeployArgs{CharmName: "redis-k8s", NumUnits: -1},
		err:  `negative unit count -1 not valid`,
	}, {
		args: model.DeployArgs{CharmName: "redis-k8s", Revision: -2},
		err:  `negative revision -2 not valid`,
	}} {
		err := t.args.Validate()
		c.Check(err, gc.ErrorMatches, t.err)
		c.Check(errors.Is(err, errors.NotValid), jc.IsTrue)
	}
}

func (s *modelSuite) TestRefreshArgsValidate(c *gc.C) {
	c.Check(model.RefreshArgs{ApplicationName: "superset-k8s-ui", Path: "./x.charm"}.Validate(), jc.ErrorIsNil)
	c.Check(model.RefreshArgs{ApplicationName: "superset-k8s-ui"}.Validate(), gc.ErrorMatches,
		`refresh of "superset-k8s-ui" without path, channel or resources not valid`)
	c.Check(model.RefreshArgs{Path: "./x.charm"}.Validate(), gc.ErrorMatches, `application name "" not valid`)
}

func (s *modelSuite) modelStatus() *model.ModelStatus {
	return &model.ModelStatus{
		Name: "test-upgrade",
		Applications: map[string]model.ApplicationStatus{
			"superset-k8s-ui": {
				Charm: "superset-k8s",
				Units: map[string]model.UnitStatus{
					"superset-k8s-ui/10": {Address: "10.1.1.10"},
					"superset-k8s-ui/2":  {Address: "10.1.1.2"},
					"superset-k8s-ui/0": {
						Address:        "10.1.1.1",
						WorkloadStatus: status.StatusInfo{Status: status.Active},
					},
					"superset-k8s-ui/1": {},
				},
			},
		},
	}
}

func (s *modelSuite) TestUnitURL(c *gc.C) {
	url, err := model.UnitURL(s.modelStatus(), "superset-k8s-ui", 0, 8088)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(url, gc.Equals, "http://10.1.1.1:8088")
}

func (s *modelSuite) TestUnitURLNoAddress(c *gc.C) {
	_, err := model.UnitURL(s.modelStatus(), "superset-k8s-ui", 1, 8088)
	c.Check(err, gc.ErrorMatches, `address of unit superset-k8s-ui/1 not found`)
	c.Check(errors.Is(err, errors.NotFound), jc.IsTrue)
}

func (s *modelSuite) TestUnitURLMissing(c *gc.C) {
	_, err := model.UnitURL(s.modelStatus(), "superset-k8s-ui", 5, 8088)
	c.Check(err, gc.ErrorMatches, `unit "superset-k8s-ui/5" not found`)

	_, err = model.UnitURL(s.modelStatus(), "postgresql-k8s", 0, 5432)
	c.Check(err, gc.ErrorMatches, `application "postgresql-k8s" in model "test-upgrade" not found`)
}

func (s *modelSuite) TestUnitNamesOrdered(c *gc.C) {
	app, err := s.modelStatus().Application("superset-k8s-ui")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(app.UnitNames(), jc.DeepEquals, []string{
		"superset-k8s-ui/0", "superset-k8s-ui/1", "superset-k8s-ui/2", "superset-k8s-ui/10",
	})
}

func (s *modelSuite) TestFastForward(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	m := mocks.NewMockModel(ctrl)
	gomock.InOrder(
		m.EXPECT().ModelConfig(gomock.Any(), model.UpdateStatusHookInterval).Return("5m", nil),
		m.EXPECT().SetModelConfig(gomock.Any(), map[string]string{
			model.UpdateStatusHookInterval: "10s",
		}).Return(nil),
		m.EXPECT().SetModelConfig(gomock.Any(), map[string]string{
			model.UpdateStatusHookInterval: "5m",
		}).Return(nil),
	)

	restore, err := model.FastForward(context.Background(), m, 10*time.Second)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(restore(context.Background()), jc.ErrorIsNil)
}

func (s *modelSuite) TestFastForwardSetFails(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	m := mocks.NewMockModel(ctrl)
	m.EXPECT().ModelConfig(gomock.Any(), model.UpdateStatusHookInterval).Return("5m", nil)
	m.EXPECT().SetModelConfig(gomock.Any(), gomock.Any()).Return(errors.New("boom"))

	_, err := model.FastForward(context.Background(), m, 10*time.Second)
	c.Check(err, gc.ErrorMatches, `setting update-status-hook-interval: boom`)
}

func (s *modelSuite) TestFastForwardInvalidInterval(c *gc.C) {
	_, err := model.FastForward(context.Background(), nil, 0)
	c.Check(err, gc.ErrorMatches, `update-status interval 0s not valid`)
}
