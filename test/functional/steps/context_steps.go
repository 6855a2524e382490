package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ocs-acceptance/internal/ocs"
)

func (fc *FeatureContext) usingOCSAPIVersion(version string) error {
	v, err := strconv.Atoi(strings.TrimSpace(version))
	if err != nil || (v != 1 && v != 2) {
		return fmt.Errorf("unsupported OCS API version %q", version)
	}
	fc.scenario.APIVersion = v
	return nil
}

func (fc *FeatureContext) asUser(user string) error {
	fc.scenario.CurrentUser = user
	return nil
}

func (fc *FeatureContext) userHasBeenCreatedWithDefaultAttributes(ctx context.Context, user string) error {
	actual := fc.users.ActualUsername(user)
	password := fc.defaultPassword
	body := ocs.FormFields{"userid": actual, "password": password}

	resp, err := fc.dispatcher.SendOCS(ctx, fc.admin(), "POST", "/cloud/users", body, nil)
	if err != nil {
		return err
	}
	if err := ocs.AssertSuccess(resp, fc.scenario.APIVersion, fmt.Sprintf("could not create user %q", actual)); err != nil {
		return err
	}
	fc.users.Add(user, password)
	fc.createdUsers = append(fc.createdUsers, actual)
	return nil
}

// deleteCreatedUsers removes the users created by the scenario. Failures are
// logged, the next scenario creates its users again.
func (fc *FeatureContext) deleteCreatedUsers(ctx context.Context) {
	for _, user := range fc.createdUsers {
		resp, err := fc.dispatcher.SendOCS(ctx, fc.admin(), "DELETE", "/cloud/users/"+user, nil, nil)
		if err == nil {
			err = ocs.AssertHTTPSuccess(resp)
		}
		if err != nil {
			fc.log.Warnw("failed to delete user", "user", user, "error", err)
		}
	}
	fc.createdUsers = nil
}

// waitForDuration accepts "250ms", "1s" or a bare number of milliseconds.
func (fc *FeatureContext) waitForDuration(ctx context.Context, duration string) error {
	duration = strings.TrimSpace(duration)

	var d time.Duration
	if ms, err := strconv.Atoi(duration); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else if d, err = time.ParseDuration(duration); err != nil {
		return err
	}

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
