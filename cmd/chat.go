package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/chat"
	"github.com/spigell/candidate-matcher/internal/conversation"
)

const (
	chatErrorMessage = "Sorry, I encountered an error processing your request."
	dateHeaderLayout = "Mon, Jan 2"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the hiring assistant in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		runChat(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

type responder interface {
	Respond(ctx context.Context, req *chat.Request) (*chat.Response, error)
}

// session keeps the transcript and state the way the chat page does.
type session struct {
	service    responder
	transcript []conversation.Turn
	state      conversation.State
	logger     *zap.Logger
}

func newSession(service responder, now time.Time, logger *zap.Logger) *session {
	return &session{
		service: service,
		transcript: []conversation.Turn{{
			Role:     conversation.RoleAssistant,
			Content:  now.Format(dateHeaderLayout),
			IsSystem: true,
		}},
		logger: logger,
	}
}

// send appends the user turn and the reply, or an error turn on failure.
func (s *session) send(ctx context.Context, text string) conversation.Turn {
	s.transcript = append(s.transcript, conversation.Turn{Role: conversation.RoleUser, Content: text})

	reply := conversation.Turn{Role: conversation.RoleAssistant}

	resp, err := s.service.Respond(ctx, &chat.Request{Messages: s.transcript, State: s.state})
	if err != nil {
		s.logger.Debug("chat turn failed", zap.Error(err))
		reply.Content = fmt.Sprintf("%s (%s)", chatErrorMessage, err)
		reply.IsError = true
	} else {
		s.state = resp.State
		reply.Content = resp.AssistantMessage.Content
	}

	s.transcript = append(s.transcript, reply)
	return reply
}

func runChat(out io.Writer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	service, err := newChatService(ctx, config, newDirectory(config, logger), logger)
	if err != nil {
		logger.Fatal("building chat service", zap.Error(err))
	}

	s := newSession(service, time.Now(), logger)
	fmt.Fprintf(out, "%s\n\n", s.transcript[0].Content)

	prompt := promptui.Prompt{Label: "You"}
	for {
		text, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		text = strings.TrimSpace(text)
		switch text {
		case "":
			continue
		case "exit", "quit":
			return
		}

		reply := s.send(ctx, text)
		label := "Assistant"
		if reply.IsError {
			label = "Assistant (error)"
		}
		fmt.Fprintf(out, "%s: %s\n\n", label, reply.Content)
	}
}
