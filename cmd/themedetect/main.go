// Command themedetect prints the theme detected from a piece of text and
// the animation config it tunes to, as YAML.
//
// Usage:
//
//	themedetect -text "stars over the sea"
//	echo "rain on the window" | themedetect
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/versefx/animation"
	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/config"
)

type report struct {
	Text   string                     `yaml:"text"`
	Theme  components.ThemeConfig     `yaml:"theme"`
	Config components.AnimationConfig `yaml:"config"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	text := flag.String("text", "", "Text to analyse (default: read stdin)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	input := *text
	if input == "" {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		input = strings.TrimSpace(string(data))
	}

	tc := animation.DetectThemeFromText(input)
	out := report{
		Text:   input,
		Theme:  tc,
		Config: animation.TuneConfig(cfg, tc),
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding: %v\n", err)
		os.Exit(1)
	}
	enc.Close()
}
