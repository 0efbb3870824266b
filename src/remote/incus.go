package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	incus "github.com/lxc/incus/client"
	"github.com/lxc/incus/shared/api"
)

// IncusAPI is the part of the Incus instance server the executor needs.
type IncusAPI interface {
	ExecInstance(instanceName string, exec api.InstanceExecPost, args *incus.InstanceExecArgs) (incus.Operation, error)
	CreateInstanceFile(instanceName string, path string, args incus.InstanceFileArgs) error
}

// Incus runs commands inside an Incus instance.
type Incus struct {
	api      IncusAPI
	project  string
	instance string
}

// ConnectIncus connects to the local Incus daemon via the UNIX socket.
func ConnectIncus(project, instance string) (*Incus, error) {
	c, err := incus.ConnectIncusUnix("", nil)
	if err != nil {
		return nil, fmt.Errorf("incus: connect: %w", err)
	}
	if project != "" {
		c = c.UseProject(project)
	}
	return NewIncus(c, project, instance), nil
}

// NewIncus wraps an existing client.
func NewIncus(c IncusAPI, project, instance string) *Incus {
	return &Incus{api: c, project: project, instance: instance}
}

func (i *Incus) Host() string {
	if i.project != "" {
		return "incus:" + i.project + "/" + i.instance
	}
	return "incus:" + i.instance
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (i *Incus) Run(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	var stdin io.ReadCloser = io.NopCloser(strings.NewReader(""))
	var stdout, stderr io.WriteCloser = nopWriteCloser{&buf}, nopWriteCloser{&buf}
	dataDone := make(chan bool)

	req := api.InstanceExecPost{
		Command:   []string{"sh", "-c", command},
		WaitForWS: true,
	}
	op, err := i.api.ExecInstance(i.instance, req, &incus.InstanceExecArgs{
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		DataDone: dataDone,
	})
	if err != nil {
		return "", fmt.Errorf("%s: exec %s: %w", i.Host(), command, err)
	}
	if err := op.Wait(); err != nil {
		return "", fmt.Errorf("%s: exec %s: %w", i.Host(), command, err)
	}
	<-dataDone

	out := buf.String()
	code, _ := op.Get().Metadata["return"].(float64)
	if code != 0 {
		return out, fmt.Errorf("%s: %s: exit status %d: %s", i.Host(), command, int(code), strings.TrimSpace(out))
	}
	return out, nil
}

func (i *Incus) Put(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	err = i.api.CreateInstanceFile(i.instance, remotePath, incus.InstanceFileArgs{
		Content:   f,
		Mode:      0o644,
		Type:      "file",
		WriteMode: "overwrite",
	})
	if err != nil {
		return fmt.Errorf("%s: push %s: %w", i.Host(), remotePath, err)
	}
	return nil
}

func (i *Incus) Close() error { return nil }
