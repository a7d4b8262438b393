// Package sshserv provides a minimal in-process SSH server for integration
// tests. It accepts any client, answers every exec request with "ok\n" and
// exit status 0, and exposes its host key so tests can exercise the
// trust-on-first-use policy.
package sshserv

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// Server is a running test SSH server.
type Server struct {
	Addr    string
	HostKey ssh.PublicKey
	stop    func()
}

// Stop closes the listener and waits for shutdown.
func (s *Server) Stop() { s.stop() }

// Start launches the test SSH server listening on listenAddr (e.g.,
// 127.0.0.1:0). It accepts any user with no authentication.
func Start(listenAddr string) (*Server, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		_ = ln.Close()
		return nil, err
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		_ = ln.Close()
		return nil, err
	}
	cfg := &ssh.ServerConfig{NoClientAuth: true}
	cfg.AddHostKey(signer)

	stopCh := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_ = ln.(*net.TCPListener).SetDeadline(time.Now().Add(500 * time.Millisecond))
			conn, err := ln.Accept()
			select {
			case <-stopCh:
				if conn != nil {
					_ = conn.Close()
				}
				return
			default:
			}
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				continue
			}
			go handleConn(conn, cfg)
		}
	}()

	srv := &Server{
		Addr:    ln.Addr().String(),
		HostKey: signer.PublicKey(),
		stop: func() {
			close(stopCh)
			_ = ln.Close()
			<-done
		},
	}
	return srv, nil
}

func handleConn(raw net.Conn, cfg *ssh.ServerConfig) {
	sc, chans, reqs, err := ssh.NewServerConn(raw, cfg)
	if err != nil {
		_ = raw.Close()
		return
	}
	_ = sc
	go ssh.DiscardRequests(reqs)
	for ch := range chans {
		if ch.ChannelType() != "session" {
			_ = ch.Reject(ssh.UnknownChannelType, "")
			continue
		}
		c, chReqs, err := ch.Accept()
		if err != nil {
			continue
		}
		go handleSession(c, chReqs)
	}
}

func handleSession(ch ssh.Channel, in <-chan *ssh.Request) {
	defer func() { _ = ch.Close() }()
	for req := range in {
		switch req.Type {
		case "exec":
			if len(req.Payload) >= 4 {
				n := binary.BigEndian.Uint32(req.Payload)
				_ = n
			}
			_ = req.Reply(true, nil)
			_, _ = ch.Write([]byte("ok\n"))
			status := make([]byte, 4)
			_, _ = ch.SendRequest("exit-status", false, status)
			return
		default:
			_ = req.Reply(false, nil)
		}
	}
}
