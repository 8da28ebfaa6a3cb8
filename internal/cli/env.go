package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"workshopupload/internal/config"
	"workshopupload/internal/gmad"
	"workshopupload/internal/logx"
	"workshopupload/internal/paths"
	"workshopupload/internal/pipeline"
	"workshopupload/internal/platform"
	"workshopupload/internal/runner"
	"workshopupload/internal/steam"
	"workshopupload/internal/tools"
	"workshopupload/internal/workshop"
)

// environment is the wiring shared by every command that touches the tools
// root or the console client.
type environment struct {
	ws     paths.Workspace
	cfg    config.Config
	target platform.Target

	term    *log.Logger
	fileLog logx.Logger
	logger  logx.Logger
	closer  io.Closer

	tools     *tools.Provisioner
	store     *steam.CredentialStore
	session   *steam.SessionManager
	packager  *gmad.Packager
	publisher *workshop.Publisher
}

// loadWorkspace resolves the base directory and project config, then applies
// the tools root override.
func loadWorkspace(cmd *cobra.Command) (paths.Workspace, config.Config, error) {
	ws, err := paths.Resolve(projectDir)
	if err != nil {
		return paths.Workspace{}, config.Config{}, err
	}
	cfg, err := config.Load(ws.ConfigFile)
	if err != nil {
		return paths.Workspace{}, config.Config{}, err
	}
	ws = paths.ApplyConfig(ws, cfg)

	v, err := bindInputs(cmd, map[string]string{inToolsDir.flag: ws.ToolsRoot}, inToolsDir)
	if err != nil {
		return paths.Workspace{}, config.Config{}, err
	}
	ws.ToolsRoot = ws.Abs(v.GetString(inToolsDir.flag))
	return ws, cfg, nil
}

func newEnvironment(cmd *cobra.Command) (*environment, error) {
	ws, cfg, err := loadWorkspace(cmd)
	if err != nil {
		return nil, err
	}

	env := &environment{
		ws:     ws,
		cfg:    cfg,
		target: platform.Detect(),
		term:   logx.New(cmd.ErrOrStderr(), verbose),
	}

	dir := logDir
	if dir == "" && cfg.LogsDir != "" {
		dir = ws.LogsDir
	}
	if dir != "" {
		fileLogger, closer, err := logx.NewFile(ws.Abs(dir))
		if err != nil {
			return nil, err
		}
		env.fileLog = logx.Info(fileLogger)
		env.closer = closer
	}
	env.logger = logx.Multi(logx.Info(env.term), env.fileLog)

	provisioner, err := tools.NewProvisioner(ws.ToolsRoot, env.target, nil, env.logger)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.tools = provisioner

	steamcmd, _ := tools.Definition(tools.SteamCMD)
	env.store = &steam.CredentialStore{
		InstallRoot: provisioner.InstallRoot(steamcmd),
		Platform:    env.target,
	}

	run := runner.CmdRunner{}
	env.session = &steam.SessionManager{Tools: provisioner, Store: env.store, Runner: run, Logger: env.logger}
	env.packager = &gmad.Packager{Tools: provisioner, Runner: run, Logger: env.logger}
	env.publisher = &workshop.Publisher{
		Tools:   provisioner,
		Auth:    env.store,
		Runner:  run,
		BaseDir: ws.Root,
		Logger:  env.logger,
	}
	return env, nil
}

func (e *environment) pipeline(onStage func(pipeline.Stage)) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Tools:     e.tools,
		Session:   e.session,
		Packager:  e.packager,
		Publisher: e.publisher,
		Logger:    e.logger,
		OnStage:   onStage,
	}
}

// Close releases the log file, if any.
func (e *environment) Close() {
	if e.closer == nil {
		return
	}
	if err := e.closer.Close(); err != nil {
		e.term.Warn("close log file", "err", err)
	}
}

func (e *environment) configDefaults() map[string]string {
	return map[string]string{
		inID.flag:                  e.cfg.Addon.ID,
		inFolder.flag:              e.cfg.Addon.Folder,
		inIcon.flag:                e.cfg.Addon.Icon,
		inTitle.flag:               e.cfg.Addon.Title,
		inDescription.flag:         e.cfg.Addon.Description,
		inMarkdownDescription.flag: e.cfg.Addon.MarkdownDescription,
		inVisibility.flag:          e.cfg.Addon.Visibility,
		inOutput.flag:              e.ws.Output,
		inAppID.flag:               e.cfg.AppID,
	}
}

func describeLogin(username string, creds steam.Credentials) string {
	return fmt.Sprintf("%s via %s", username, steam.SelectStrategy(creds))
}
