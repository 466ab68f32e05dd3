package ledger

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Settings returns the stored bot settings, or the defaults when none are saved.
func (service *Service) Settings(ctx context.Context) (SettingsDocument, error) {
	document := &SettingsDocument{}
	if err := service.store.Read(ctx, document); err != nil {
		return SettingsDocument{}, err
	}
	return *document, nil
}

// SaveSettings validates and replaces the stored settings.
func (service *Service) SaveSettings(ctx context.Context, settings SettingsDocument) (SettingsDocument, error) {
	settings.BotPrefix = strings.TrimSpace(settings.BotPrefix)
	settings.CurrencySymbol = strings.TrimSpace(settings.CurrencySymbol)
	err := validateSettings(settings)
	if err == nil {
		document := &SettingsDocument{}
		err = service.update(ctx, document, func(context.Context) error {
			*document = settings
			return nil
		})
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationSaveSettings,
		Document:  DocumentSettings,
		Error:     err,
	})
	if err != nil {
		return SettingsDocument{}, err
	}
	return settings, nil
}

func validateSettings(settings SettingsDocument) error {
	prefixLength := utf8.RuneCountInString(settings.BotPrefix)
	switch {
	case prefixLength == 0 || prefixLength > maxSettingsPrefixLength:
		return fmt.Errorf("%w: bot prefix must be 1-%d characters", ErrInvalidSettings, maxSettingsPrefixLength)
	case settings.CurrencySymbol == "":
		return fmt.Errorf("%w: currency symbol cannot be empty", ErrInvalidSettings)
	case settings.DailyReward < 0 || settings.WeeklyReward < 0:
		return fmt.Errorf("%w: rewards must not be negative", ErrInvalidSettings)
	case settings.AutobanThreshold < 0:
		return fmt.Errorf("%w: autoban threshold must not be negative", ErrInvalidSettings)
	case settings.DefaultTimeout <= 0:
		return fmt.Errorf("%w: default timeout must be positive", ErrInvalidSettings)
	}
	return nil
}
