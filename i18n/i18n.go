package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

var lang string

var supported = []string{"es", "pt", "ru"}

var translations = map[string]map[string]string{
	"Stop": {
		"es": "Parar",
		"pt": "Parar",
		"ru": "Стоп",
	},
	"Connect": {
		"es": "Conectar",
		"pt": "Conectar",
		"ru": "Подключить",
	},
	"Disconnect": {
		"es": "Desconectar",
		"pt": "Desconectar",
		"ru": "Отключить",
	},
	"Connected": {
		"es": "Conectado",
		"pt": "Conectado",
		"ru": "Подключено",
	},
	"Disconnected": {
		"es": "Desconectado",
		"pt": "Desconectado",
		"ru": "Отключено",
	},
	"Line follower": {
		"es": "Siguelíneas",
		"pt": "Seguidor de linha",
		"ru": "Следование по линии",
	},
	"Manual control": {
		"es": "Control manual",
		"pt": "Controle manual",
		"ru": "Ручное управление",
	},
	"Open": {
		"es": "Abrir",
		"pt": "Abrir",
		"ru": "Открыть",
	},
	"Close": {
		"es": "Cerrar",
		"pt": "Fechar",
		"ru": "Закрыть",
	},
	"Full open": {
		"es": "Abrir del todo",
		"pt": "Abrir tudo",
		"ru": "Открыть полностью",
	},
	"Robot": {
		"es": "Robot",
		"pt": "Robô",
		"ru": "Робот",
	},
	"Claw": {
		"es": "Pinza",
		"pt": "Garra",
		"ru": "Клешня",
	},
	"Help": {
		"es": "Ayuda",
		"pt": "Ajuda",
		"ru": "Справка",
	},
	"About RoboPad": {
		"es": "Acerca de RoboPad",
		"pt": "Sobre o RoboPad",
		"ru": "О RoboPad",
	},
	"Could not connect": {
		"es": "No se pudo conectar",
		"pt": "Não foi possível conectar",
		"ru": "Не удалось подключиться",
	},
}

func init() {
	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv("ROBOPAD_LANG")); forcedLang != "" {
		log.Printf("ROBOPAD_LANG is set to: '%s'", forcedLang)
		lang = forcedLang
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		lang = "en"
		return
	}
	lang = pick(userLocales)
	log.Printf("Language set to: %s", lang)
}

// pick maps the first detected locale onto a supported language.
func pick(locales []string) string {
	if len(locales) == 0 {
		return "en"
	}
	for _, l := range supported {
		if strings.HasPrefix(locales[0], l) {
			return l
		}
	}
	return "en"
}

func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang
}

// SetLang overrides the detected language.
func SetLang(l string) {
	lang = l
}
