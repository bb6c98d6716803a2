package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/mranv/ocsf-opensearch/internal/logging"
	"github.com/mranv/ocsf-opensearch/internal/ocsf"
	"github.com/mranv/ocsf-opensearch/internal/opensearch/templates"
)

// Provisioner installs the cluster-side plumbing: the ISM lifecycle
// policy, shared component templates, per-class index templates, initial
// dated indices, and rollover aliases.
//
// Every step is idempotent in effect: conflicts with existing objects are
// logged and skipped, matching repeated runs against a live cluster.
type Provisioner struct {
	client  *opensearchgo.Client
	logger  *slog.Logger
	classes []ocsf.Class

	now func() time.Time
}

// NewProvisioner creates a Provisioner covering the given event classes.
func NewProvisioner(client *opensearchgo.Client, logger *slog.Logger, classes []ocsf.Class) *Provisioner {
	return &Provisioner{
		client:  client,
		logger:  logging.Default(logger).With("component", "provisioner"),
		classes: classes,
		now:     time.Now,
	}
}

// Init runs the full provisioning sequence.
func (p *Provisioner) Init(ctx context.Context) error {
	if err := p.putISMPolicy(ctx); err != nil {
		return err
	}
	if err := p.putComponentTemplates(ctx); err != nil {
		return err
	}
	if err := p.putIndexTemplates(ctx); err != nil {
		return err
	}
	return p.createIndices(ctx)
}

// putISMPolicy installs the rollover/expiration policy. The ISM plugin
// has no typed API in the client, so this goes through a raw request.
func (p *Provisioner) putISMPolicy(ctx context.Context) error {
	body, err := json.Marshal(templates.ISMPolicy())
	if err != nil {
		return fmt.Errorf("marshal ism policy: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		"/_plugins/_ism/policies/"+templates.PolicyID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ism request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Perform(req)
	if err != nil {
		return fmt.Errorf("put ism policy: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusConflict:
		p.logger.Warn("ism policy already exists", "policy", templates.PolicyID)
	case res.StatusCode >= 300:
		p.logger.Warn("ism policy not created", "policy", templates.PolicyID, "status", res.Status)
	default:
		p.logger.Info("ism policy created", "policy", templates.PolicyID)
	}
	return nil
}

func (p *Provisioner) putComponentTemplates(ctx context.Context) error {
	components := map[string]map[string]any{
		templates.ActorTemplateName:   templates.Actor(),
		templates.AnswersTemplateName: templates.Answers(),
	}

	for name, body := range components {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal component template %s: %w", name, err)
		}

		res, err := opensearchapi.ClusterPutComponentTemplateRequest{
			Name: name,
			Body: bytes.NewReader(raw),
		}.Do(ctx, p.client)
		if err != nil {
			return fmt.Errorf("put component template %s: %w", name, err)
		}
		res.Body.Close()

		if res.IsError() {
			p.logger.Warn("component template not created", "template", name, "status", res.Status())
		} else {
			p.logger.Info("component template created", "template", name)
		}
	}
	return nil
}

func (p *Provisioner) putIndexTemplates(ctx context.Context) error {
	for _, c := range p.classes {
		raw, err := json.Marshal(templates.Index(c))
		if err != nil {
			return fmt.Errorf("marshal index template %s: %w", c.IndexBase(), err)
		}

		res, err := opensearchapi.IndicesPutIndexTemplateRequest{
			Name: c.IndexBase(),
			Body: bytes.NewReader(raw),
		}.Do(ctx, p.client)
		if err != nil {
			return fmt.Errorf("put index template %s: %w", c.IndexBase(), err)
		}
		res.Body.Close()

		if res.IsError() {
			p.logger.Warn("index template not created", "template", c.IndexBase(), "status", res.Status())
		} else {
			p.logger.Info("index template created", "template", c.IndexBase())
		}
	}
	return nil
}

// createIndices creates today's write index per class, points the family
// alias at the pattern, and sets the rollover alias on the write index.
func (p *Provisioner) createIndices(ctx context.Context) error {
	now := p.now()

	for _, c := range p.classes {
		indexName := c.Index(now)

		res, err := opensearchapi.IndicesCreateRequest{Index: indexName}.Do(ctx, p.client)
		if err != nil {
			return fmt.Errorf("create index %s: %w", indexName, err)
		}
		res.Body.Close()
		if res.IsError() {
			p.logger.Warn("index not created", "index", indexName, "status", res.Status())
		} else {
			p.logger.Info("index created", "index", indexName)
		}

		res, err = opensearchapi.IndicesPutAliasRequest{
			Index: []string{c.Pattern()},
			Name:  c.IndexBase(),
		}.Do(ctx, p.client)
		if err != nil {
			return fmt.Errorf("create alias %s: %w", c.IndexBase(), err)
		}
		res.Body.Close()
		if res.IsError() {
			p.logger.Warn("alias not created", "alias", c.IndexBase(), "status", res.Status())
		} else {
			p.logger.Info("alias created", "alias", c.IndexBase())
		}

		settings := map[string]any{
			"settings": map[string]any{
				"index": map[string]any{
					"plugins": map[string]any{
						"index_state_management": map[string]any{
							"rollover_alias": c.IndexBase(),
						},
					},
				},
			},
		}
		raw, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("marshal settings for %s: %w", indexName, err)
		}

		res, err = opensearchapi.IndicesPutSettingsRequest{
			Index: []string{indexName},
			Body:  bytes.NewReader(raw),
		}.Do(ctx, p.client)
		if err != nil {
			return fmt.Errorf("apply settings to %s: %w", indexName, err)
		}
		res.Body.Close()
		if res.IsError() {
			p.logger.Warn("settings not applied", "index", indexName, "status", res.Status())
		}
	}
	return nil
}
