package ui

import (
	"strconv"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	appconfig "voyager/infrastructure/config"
	"voyager/infrastructure/llm"
)

// showSettingsDialog edits the connection and planner settings. Saving
// writes the values back to the process environment and the settings
// file, then rebuilds the planner for the newly selected provider.
func (s *Shell) showSettingsDialog() {
	cfg := s.cfg

	sapServer := widget.NewEntry()
	sapServer.SetText(cfg.SAPServer)
	sapUser := widget.NewEntry()
	sapUser.SetText(cfg.SAPUser)
	sapPassword := widget.NewPasswordEntry()
	sapPassword.SetText(cfg.SAPPassword)

	lcProject := widget.NewEntry()
	lcProject.SetText(cfg.LangChainProject)
	lcEndpoint := widget.NewEntry()
	lcEndpoint.SetText(cfg.LangChainEndpoint)
	lcAPIKey := widget.NewPasswordEntry()
	lcAPIKey.SetText(cfg.LangChainAPIKey)

	recursionLimit := widget.NewEntry()
	recursionLimit.SetText(strconv.Itoa(cfg.RecursionLimit))

	azureVersion := widget.NewEntry()
	azureVersion.SetText(cfg.Azure.APIVersion)
	azureKey := widget.NewPasswordEntry()
	azureKey.SetText(cfg.Azure.APIKey)
	azureEndpoint := widget.NewEntry()
	azureEndpoint.SetText(cfg.Azure.Endpoint)
	azureDeployment := widget.NewEntry()
	azureDeployment.SetText(cfg.Azure.DeploymentName)

	groqModel := widget.NewEntry()
	groqModel.SetText(cfg.Groq.Model)
	groqKey := widget.NewPasswordEntry()
	groqKey.SetText(cfg.Groq.APIKey)

	anthropicModel := widget.NewEntry()
	anthropicModel.SetText(cfg.Anthropic.Model)
	anthropicKey := widget.NewPasswordEntry()
	anthropicKey.SetText(cfg.Anthropic.Key)

	providerNames := make([]string, 0, len(appconfig.Providers())+1)
	providerNames = append(providerNames, "none")
	for _, p := range appconfig.Providers() {
		providerNames = append(providerNames, string(p))
	}
	providerSelect := widget.NewSelect(providerNames, nil)
	if cfg.Provider == appconfig.ProviderNone {
		providerSelect.SetSelected("none")
	} else {
		providerSelect.SetSelected(string(cfg.Provider))
	}

	form := []*widget.FormItem{
		widget.NewFormItem("SAP server", sapServer),
		widget.NewFormItem("SAP user", sapUser),
		widget.NewFormItem("SAP password", sapPassword),
		widget.NewFormItem("LangChain project", lcProject),
		widget.NewFormItem("LangChain endpoint", lcEndpoint),
		widget.NewFormItem("LangChain API key", lcAPIKey),
		widget.NewFormItem("Recursion limit", recursionLimit),
		widget.NewFormItem("Provider", providerSelect),
		widget.NewFormItem("Azure API version", azureVersion),
		widget.NewFormItem("Azure API key", azureKey),
		widget.NewFormItem("Azure endpoint", azureEndpoint),
		widget.NewFormItem("Azure deployment", azureDeployment),
		widget.NewFormItem("GROQ model", groqModel),
		widget.NewFormItem("GROQ API key", groqKey),
		widget.NewFormItem("Anthropic model", anthropicModel),
		widget.NewFormItem("Anthropic key", anthropicKey),
	}

	dialog.ShowForm("Settings", "Save", "Cancel", form, func(confirmed bool) {
		if !confirmed {
			return
		}

		cfg.SAPServer = sapServer.Text
		cfg.SAPUser = sapUser.Text
		cfg.SAPPassword = sapPassword.Text
		cfg.LangChainProject = lcProject.Text
		cfg.LangChainEndpoint = lcEndpoint.Text
		cfg.LangChainAPIKey = lcAPIKey.Text
		if limit, err := strconv.Atoi(recursionLimit.Text); err == nil && limit > 0 {
			cfg.RecursionLimit = limit
		}

		if providerSelect.Selected == "none" {
			cfg.Provider = appconfig.ProviderNone
		} else {
			cfg.Provider = appconfig.Provider(providerSelect.Selected)
		}
		cfg.Azure = appconfig.AzureSettings{
			APIVersion:     azureVersion.Text,
			APIKey:         azureKey.Text,
			Endpoint:       azureEndpoint.Text,
			DeploymentName: azureDeployment.Text,
		}
		cfg.Groq = appconfig.GroqSettings{
			Model:  groqModel.Text,
			APIKey: groqKey.Text,
		}
		cfg.Anthropic = appconfig.AnthropicSettings{
			Model: anthropicModel.Text,
			Key:   anthropicKey.Text,
		}

		cfg.ApplyToEnv()
		if err := appconfig.SaveSettingsFile(cfg, appconfig.SettingsPath()); err != nil {
			s.logger.Warn("settings file not saved", zap.Error(err))
		}

		planner, err := llm.NewPlannerFromConfig(cfg, s.logger)
		if err != nil {
			s.notifyError(err)
			return
		}
		s.planner.SetPlanner(planner)
		s.logger.Info("settings saved", zap.String("provider", string(cfg.Provider)))
	}, s.window)
}
