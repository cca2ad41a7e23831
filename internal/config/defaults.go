package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"database": map[string]interface{}{
			"path": "~/.studydesk/studydesk.db",
		},
		"timezone": "Local",
		"refresh": map[string]interface{}{
			"countdown": 30,  // seconds between countdown redraws
			"sync":      300, // seconds between notification checks
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"markdown":       true,
		},
		"log": map[string]interface{}{
			"level": "info",
		},
		"notify": map[string]interface{}{
			"enabled":    false,
			"thresholds": []string{Threshold24h, Threshold1h, ThresholdOverdue},
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
			},
		},
		"attendance": map[string]interface{}{
			"min_required": 75.0,
		},
		"cgpa": map[string]interface{}{
			"scale": 10,
		},
		"holidays": map[string]interface{}{
			"file": "", // empty uses the built-in list
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.studydesk/config.yaml"
}
