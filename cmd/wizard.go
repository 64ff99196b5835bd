package cmd

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/logger"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/notify"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/session"
)

const (
	labelNext    = "Next"
	labelCustom  = "Add custom values"
	labelConfirm = "Confirm"
	labelRestart = "Start over"
	labelCancel  = "Cancel"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run a guided flow in the terminal",
	Long: `Run one of the guided flows locally. The terminal stands in for the chat
transport: menu choices play the role of reactions, typed input the role of
chat messages.`,
	Run: func(cmd *cobra.Command, _ []string) {
		wizard(cmd)
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)

	wizardCmd.Flags().StringP("flow", "f", string(session.KindWizard),
		"flow to run: wizard, subscribe, unsubscribe, add-location or add-company")
	wizardCmd.Flags().StringP("user", "u", "local", "user id to act as")
}

// steppingRenderer remembers the last prompt it rendered so the terminal
// loop knows which options and actions to offer.
type steppingRenderer struct {
	*notify.Console

	mu     sync.Mutex
	step   notify.Step
	prompt notify.PromptID
}

func (r *steppingRenderer) RenderStep(ctx context.Context, userID string, step notify.Step) (notify.PromptID, error) {
	id, err := r.Console.RenderStep(ctx, userID, step)
	if err != nil {
		return id, err
	}

	r.mu.Lock()
	r.step = step
	r.prompt = id
	r.mu.Unlock()

	return id, nil
}

func (r *steppingRenderer) current() (notify.Step, notify.PromptID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step, r.prompt
}

func wizard(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	deps, err := buildDeps(ctx, config, logger)
	if err != nil {
		logger.Fatal("building dependencies", zap.Error(err))
	}
	defer deps.cleanup()

	userID := cmd.Flag("user").Value.String()
	kind := session.Kind(cmd.Flag("flow").Value.String())

	flow, err := buildFlow(ctx, kind, config, deps, userID)
	if err != nil {
		logger.Fatal("building flow", zap.Error(err))
	}

	renderer := &steppingRenderer{Console: deps.console}
	registry := session.NewRegistry(renderer, logger)

	if _, err := registry.Start(ctx, userID, flow); err != nil {
		logger.Fatal("starting session", zap.Error(err))
	}

	for registry.Active(userID) {
		if err := wizardTurn(ctx, registry, renderer, userID); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// wizardTurn shows one menu and routes the chosen action as a session event.
func wizardTurn(ctx context.Context, registry *session.Registry, renderer *steppingRenderer, userID string) error {
	step, prompt := renderer.current()

	items := make([]string, 0, len(step.Options)+4)
	selectable := 0
	for _, option := range step.Options {
		items = append(items, option)
		selectable++
	}
	for _, action := range step.Actions {
		items = append(items, actionLabel(action))
	}

	menu := promptui.Select{
		Label: "Pick an option or action",
		Items: items,
		Size:  len(items),
	}

	idx, chosen, err := menu.Run()
	if err != nil {
		return err
	}

	var event session.Event
	switch chosen {
	case labelNext:
		event = session.AdvanceStep{Prompt: prompt}
	case labelConfirm:
		event = session.Confirm{Prompt: prompt}
	case labelRestart:
		event = session.Restart{Prompt: prompt}
	case labelCancel:
		event = session.Cancel{}
	case labelCustom:
		if err := registry.Route(ctx, userID, session.RequestCustomText{Prompt: prompt}); err != nil {
			return err
		}
		input := promptui.Prompt{Label: "Custom values (comma-separated)"}
		text, err := input.Run()
		if err != nil {
			return err
		}
		_, err = registry.Text(ctx, userID, text)
		return err
	default:
		if idx < selectable {
			event = session.ToggleOption{Prompt: prompt, Option: idx}
		} else {
			return fmt.Errorf("invalid action: %s", chosen)
		}
	}

	return registry.Route(ctx, userID, event)
}

func actionLabel(action string) string {
	switch action {
	case "next":
		return labelNext
	case "custom":
		return labelCustom
	case "confirm":
		return labelConfirm
	case "restart":
		return labelRestart
	case "cancel":
		return labelCancel
	}
	return action
}

// buildFlow wires the requested flow kind with its option universe and
// confirm action.
func buildFlow(ctx context.Context, kind session.Kind, config *Config, deps *deps, userID string) (*session.FlowSpec, error) {
	options := config.Options

	switch kind {
	case session.KindWizard:
		return session.WizardFlow(options.Categories, options.Locations, options.Companies, deps.monitor.Search), nil
	case session.KindSubscribe:
		return session.SubscribeFlow(options.Categories, deps.prefStore), nil
	case session.KindUnsubscribe:
		current, err := deps.prefStore.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("loading current subscriptions: %w", err)
		}
		if len(current.Categories) == 0 {
			return nil, fmt.Errorf("no categories subscribed, nothing to unsubscribe from")
		}
		return session.UnsubscribeFlow(current.Categories, deps.prefStore), nil
	case session.KindAddLocation:
		return session.AddLocationFlow(options.Locations, deps.prefStore), nil
	case session.KindAddCompany:
		return session.AddCompanyFlow(options.Companies, deps.prefStore), nil
	default:
		return nil, fmt.Errorf("unknown flow kind: %s", kind)
	}
}
