package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quizwire/quizwire/internal/protocol"
	"github.com/quizwire/quizwire/internal/questions"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var (
		addr     string
		username string
		auto     bool
	)

	cmd := &cobra.Command{
		Use:           "quizwire-client",
		Short:         "Joins a trivia match, either interactively or with the auto-solver.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd.Context(), addr, username, auto)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:7777", "server address")
	cmd.Flags().StringVarP(&username, "username", "u", "", "player name")
	cmd.Flags().BoolVar(&auto, "auto", false, "answer questions automatically")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func play(ctx context.Context, addr, username string, auto bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	if err := protocol.Write(conn, protocol.Message{
		MessageType: protocol.TypeHi,
		Username:    username,
	}); err != nil {
		return err
	}
	fmt.Printf("Connected to %s as %s\n", addr, username)

	// In interactive mode every line typed on stdin is submitted as the
	// current answer.
	if !auto {
		go func() {
			sc := bufio.NewScanner(os.Stdin)
			for sc.Scan() {
				_ = protocol.Write(conn, protocol.Message{
					MessageType: protocol.TypeAnswer,
					Answer:      sc.Text(),
				})
			}
		}()
	}

	// Leave politely on interrupt.
	go func() {
		<-ctx.Done()
		_ = protocol.Write(conn, protocol.Message{MessageType: protocol.TypeBye})
		conn.Close()
	}()

	r := protocol.NewReader(conn)
	for {
		msg, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading from server: %w", err)
		}

		switch msg.MessageType {
		case protocol.TypeReady:
			fmt.Println(msg.Info)

		case protocol.TypeQuestion:
			fmt.Printf("\n%s\n", msg.TriviaQuestion)
			fmt.Printf("(%d seconds to answer)\n", msg.TimeLimit)
			if auto {
				answer, err := questions.Answer(msg.QuestionType, msg.ShortQuestion)
				if err != nil {
					fmt.Printf("cannot solve %q: %v\n", msg.ShortQuestion, err)
					continue
				}
				fmt.Printf("> %s\n", answer)
				if err := protocol.Write(conn, protocol.Message{
					MessageType: protocol.TypeAnswer,
					Answer:      answer,
				}); err != nil {
					return err
				}
			}

		case protocol.TypeResult:
			fmt.Println(msg.Feedback)

		case protocol.TypeLeaderboard:
			fmt.Printf("\n%s\n", msg.State)

		case protocol.TypeFinished:
			fmt.Printf("\n%s\n", msg.FinalStandings)
			return nil
		}
	}
}
