package claude

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
)

type env struct {
	client       *Client
	userPrompt   string
	systemPrompt string
	model        string
	maxTokens    int
	isChat       bool
	isStream     bool
	listModels   bool
	debug        bool
}

func CLI(args []string) int {
	app := env{}
	err := app.fromArgs(args)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			fmt.Fprintf(os.Stderr, "set your API key first:\n\texport %s='your-api-key-here'\n", EnvAPIKey)
			return 2
		}
		fmt.Fprintf(os.Stderr, "parsing args: %v\n", err)
		return 2
	}

	if err := app.run(); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	return 0
}

func (app *env) fromArgs(args []string) error {
	// A missing .env is fine; the key may come from the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	fl := flag.NewFlagSet("claude", flag.ContinueOnError)

	var prompt string
	fl.StringVar(&prompt, "p", "", "user prompt to Claude")
	fl.StringVar(&prompt, "prompt", "", "user prompt to Claude")

	var system string
	fl.StringVar(&system, "s", "", "system prompt to Claude")
	fl.StringVar(&system, "system", "", "system prompt to Claude")

	var model string
	fl.StringVar(&model, "m", "sonnet-3.5", "the Claude model to use")
	fl.StringVar(&model, "model", "sonnet-3.5", "the Claude model to use")

	var maxTokens int
	fl.IntVar(&maxTokens, "t", 0, "max tokens in the reply (0 = default)")
	fl.IntVar(&maxTokens, "max-tokens", 0, "max tokens in the reply (0 = default)")

	var isStream bool
	fl.BoolVar(&isStream, "stream", false, "print the reply as it is generated")

	var isChat bool
	fl.BoolVar(&isChat, "c", false, "Start a live chat that retains conversation history")
	fl.BoolVar(&isChat, "chat", false, "Start a live chat that retains conversation history")

	var listModels bool
	fl.BoolVar(&listModels, "l", false, "list known Claude models and exit")
	fl.BoolVar(&listModels, "list", false, "list known Claude models and exit")

	var debug bool
	fl.BoolVar(&debug, "debug", false, "dump the assembled request before sending")

	if err := fl.Parse(args); err != nil {
		return err
	}

	modelMap := map[string]string{
		"haiku":      HAIKU,
		"sonnet":     SONNET,
		"opus":       OPUS,
		"haiku-3.5":  HAIKU_3_5,
		"sonnet-3.5": SONNET_3_5,
	}

	claudeModel, ok := modelMap[model]
	if !ok {
		return errors.New("model must be one of [haiku, sonnet, opus, haiku-3.5, sonnet-3.5]")
	}

	app.userPrompt = prompt
	app.systemPrompt = system
	app.model = claudeModel
	app.maxTokens = maxTokens
	app.isChat = isChat
	app.isStream = isStream
	app.listModels = listModels
	app.debug = debug

	client, err := NewClient("")
	if err != nil {
		return err
	}
	app.client = client

	return nil
}

func (app *env) run() error {
	if app.listModels {
		for _, m := range app.client.AvailableModels() {
			fmt.Println(m)
		}
		return nil
	}

	opts := &ChatOptions{
		Model:     app.model,
		System:    app.systemPrompt,
		MaxTokens: app.maxTokens,
	}

	ctx := context.Background()

	if app.isChat {
		return app.chatLoop(ctx, opts)
	}

	if app.userPrompt == "" {
		return errors.New("no prompt given (use -p)")
	}

	if app.debug {
		spew.Fdump(os.Stderr, buildRequest([]Message{{Role: "user", Content: app.userPrompt}}, opts))
	}

	if app.isStream {
		stream, err := app.client.ChatStream(ctx, app.userPrompt, opts)
		if err != nil {
			return err
		}
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			fmt.Print(chunk)
		}
		fmt.Println()
		return nil
	}

	reply, err := app.client.Chat(ctx, app.userPrompt, opts)
	if err != nil {
		return err
	}
	fmt.Println(reply)

	return nil
}

// chatLoop keeps the conversation history on this side of the API; the
// client itself is stateless between calls.
func (app *env) chatLoop(ctx context.Context, opts *ChatOptions) error {
	scanner := bufio.NewScanner(os.Stdin)
	history := []Message{}

	fmt.Println("starting chat (ctrl-d to quit)")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		history = append(history, Message{Role: "user", Content: line})

		if app.debug {
			spew.Fdump(os.Stderr, buildRequest(history, opts))
		}

		reply, err := app.client.ChatWithHistory(ctx, history, opts)
		if err != nil {
			return err
		}
		history = append(history, Message{Role: "assistant", Content: reply})

		fmt.Printf("\n%s\n\n", reply)
	}
}
