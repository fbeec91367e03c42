/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: navigator.go
Description: Form navigation on top of a Widget: opening a module from the home screen, paging
through questions, submitting and logging out.
*/

package widget

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// SentConfirmation is the text shown after a single form reaches the server
const SentConfirmation = "1 form sent to server!"

// NavConfig names the controls used for form navigation
type NavConfig struct {
	StartText  string `mapstructure:"start_text"`
	ModuleItem string `mapstructure:"module_item"`
	NextPage   string `mapstructure:"next_page"`
	Finish     string `mapstructure:"finish"`
	SentText   string `mapstructure:"sent_text"`
	LogoutText string `mapstructure:"logout_text"`
}

// DefaultNavConfig returns the navigation controls of the data-collection app
func DefaultNavConfig() NavConfig {
	return NavConfig{
		StartText:  "Start",
		ModuleItem: "row_txt",
		NextPage:   "nav_btn_next",
		Finish:     "nav_btn_finish",
		SentText:   SentConfirmation,
		LogoutText: "Log out of CommCare",
	}
}

// Navigator drives form navigation through a Widget
type Navigator struct {
	w      Widget
	cfg    NavConfig
	logger *logrus.Logger
}

// NewNavigator creates a navigator; a nil logger falls back to the logrus standard logger
func NewNavigator(w Widget, cfg NavConfig, logger *logrus.Logger) *Navigator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Navigator{w: w, cfg: cfg, logger: logger}
}

// OpenModule opens the index-th module listed after pressing Start
func (n *Navigator) OpenModule(ctx context.Context, index int) error {
	n.logger.WithField("module", index).Debug("Opening module")
	present, err := n.w.IsPresent(ctx, WithText(n.cfg.StartText))
	if err != nil {
		return fmt.Errorf("open module %d: %w", index, err)
	}
	if present {
		if err := n.w.Click(ctx, WithText(n.cfg.StartText)); err != nil {
			return fmt.Errorf("open module %d: %w", index, err)
		}
	}
	if err := n.w.Click(ctx, ByID(n.cfg.ModuleItem).Nth(index)); err != nil {
		return fmt.Errorf("open module %d: %w", index, err)
	}
	return nil
}

// NextPage advances the form by one question page
func (n *Navigator) NextPage(ctx context.Context) error {
	if err := n.w.Click(ctx, ByID(n.cfg.NextPage)); err != nil {
		return fmt.Errorf("next page: %w", err)
	}
	return nil
}

// SubmitForm finishes the form and waits for the sent confirmation
func (n *Navigator) SubmitForm(ctx context.Context) error {
	if err := n.w.Click(ctx, ByID(n.cfg.Finish)); err != nil {
		return fmt.Errorf("submit form: %w", err)
	}
	ok, err := n.w.IsPresent(ctx, WithText(n.cfg.SentText))
	if err != nil {
		return fmt.Errorf("submit form: %w", err)
	}
	if !ok {
		return fmt.Errorf("submit form: confirmation %q: %w", n.cfg.SentText, ErrNotFound)
	}
	n.logger.Info("Form sent")
	return nil
}

// Logout leaves the home screen session
func (n *Navigator) Logout(ctx context.Context) error {
	if err := n.w.Click(ctx, WithText(n.cfg.LogoutText)); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
