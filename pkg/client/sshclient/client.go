// Package sshclient wraps golang.org/x/crypto/ssh with the small surface the
// provisioning flows need: run a command, upload a file, probe reachability.
package sshclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// DefaultDialTimeout bounds a single connection attempt.
const DefaultDialTimeout = 10 * time.Second

// ErrConnectFailed indicates the SSH connection could not be established.
var ErrConnectFailed = errors.New("ssh connection failed")

// Config describes how to reach one machine over SSH.
type Config struct {
	Host    string
	Port    int
	User    string
	KeyPath string
	Timeout time.Duration
}

// Client runs commands on a single machine over SSH.
type Client struct {
	config Config
}

// New creates a client for the given machine. No connection is made until a
// command runs.
func New(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultDialTimeout
	}

	return &Client{config: config}
}

// Addr returns the host:port the client connects to.
func (c *Client) Addr() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

// connect dials the machine and authenticates with the configured key.
func (c *Client) connect() (*ssh.Client, error) {
	keyPath, err := expandPath(c.config.KeyPath)
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", keyPath, err)
	}

	clientConfig := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{ssh.PublicKeys(signer)},
		// Freshly launched machines have unknown host keys.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         c.config.Timeout,
	}

	conn, err := ssh.Dial("tcp", c.Addr(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectFailed, c.Addr(), err)
	}

	return conn, nil
}

// Check verifies the machine accepts an SSH connection with the configured
// credentials.
func (c *Client) Check(ctx context.Context) error {
	return c.withConnection(ctx, func(*ssh.Client) error {
		return nil
	})
}

// Run executes a command on the machine and returns its combined output.
func (c *Client) Run(ctx context.Context, command string) (string, error) {
	var output []byte

	err := c.withConnection(ctx, func(conn *ssh.Client) error {
		session, err := conn.NewSession()
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
		defer func() { _ = session.Close() }()

		output, err = session.CombinedOutput(command)
		if err != nil {
			return fmt.Errorf("command %q failed: %w: %s", command, err, strings.TrimSpace(string(output)))
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return string(output), nil
}

// Upload writes content to a remote path by streaming it through a shell on
// the far side. Parent directories are created as needed.
func (c *Client) Upload(ctx context.Context, content []byte, remotePath string) error {
	return c.withConnection(ctx, func(conn *ssh.Client) error {
		session, err := conn.NewSession()
		if err != nil {
			return fmt.Errorf("failed to open session: %w", err)
		}
		defer func() { _ = session.Close() }()

		session.Stdin = strings.NewReader(string(content))

		command := fmt.Sprintf(
			"mkdir -p %q && cat > %q",
			filepath.Dir(remotePath), remotePath,
		)

		err = session.Run(command)
		if err != nil {
			return fmt.Errorf("failed to upload to %s: %w", remotePath, err)
		}

		return nil
	})
}

// withConnection runs fn with a live connection, closing it afterwards. The
// context cancels the work by tearing the connection down.
func (c *Client) withConnection(ctx context.Context, fn func(*ssh.Client) error) error {
	conn, err := c.connect()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	done := make(chan error, 1)

	go func() {
		done <- fn(conn)
	}()

	select {
	case <-ctx.Done():
		_ = conn.Close()

		return ctx.Err()
	case err := <-done:
		return err
	}
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
