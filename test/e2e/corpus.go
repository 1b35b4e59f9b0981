// Package e2e exercises the full HTTP API over a generated corpus.
package e2e

import "fmt"

// Document is one entry in the e2e corpus. Content carries a unique
// signature phrase so queries can assert the right document comes back.
type Document struct {
	SourceID string
	Content  string
}

// QueryCase is a query and the source ID that must rank first. With the
// deterministic embedder an exact-content query always wins.
type QueryCase struct {
	Query          string
	ExpectedSource string
	Description    string
}

// Corpus holds documents and query cases for e2e tests.
type Corpus struct {
	Documents []Document
	Cases     []QueryCase
}

var topics = []struct {
	slug    string
	content string
}{
	{"deploys", "Deployments promote through staging before production. The promote-gate checklist lives in the release runbook."},
	{"oncall", "The on-call rotation hands over every Monday morning. Escalation goes through the paging bridge first."},
	{"backups", "Database backups stream to the offsite bucket nightly. Restores are rehearsed quarterly on the warm standby."},
	{"certs", "TLS certificates rotate automatically via the bastion cron job. Manual rotation needs the security key vault."},
	{"vpn", "Remote access uses the split-tunnel VPN profile. Contractors get the restricted gateway profile instead."},
	{"billing", "Invoices are generated on the first business day. The billing reconciler flags mismatched line items."},
	{"onboarding", "New engineers pair with a buddy for two weeks. Laptop provisioning happens through the device portal."},
	{"incident", "Severity-one incidents open a bridge call immediately. The incident commander owns all external comms."},
	{"storage", "Object storage quotas are enforced per team. Exceeding quota triggers the janitor sweep within an hour."},
	{"reviews", "Code review requires one approval from the owning team. Large migrations need a design sign-off first."},
	{"metrics", "Service dashboards track the golden signals. Alert thresholds come from the last quarter's baselines."},
	{"secrets", "Application secrets live in the central vault. Local development uses scoped short-lived tokens."},
	{"releases", "Release trains cut every Thursday afternoon. Hotfixes branch from the last tagged release."},
	{"dns", "Internal DNS zones replicate across both regions. Record changes propagate within five minutes."},
	{"queues", "Work queues drain through the consumer pool. Poison messages park in the dead-letter topic after three tries."},
}

// BuildCorpus returns n single-chunk documents cycling over the topic set,
// each with a distinct numbered signature, plus one exact-content query per
// distinct topic.
func BuildCorpus(n int) *Corpus {
	c := &Corpus{}
	for i := 0; i < n; i++ {
		topic := topics[i%len(topics)]
		doc := Document{
			SourceID: fmt.Sprintf("kb/%s-%d", topic.slug, i),
			Content:  fmt.Sprintf("Entry %d. %s", i, topic.content),
		}
		c.Documents = append(c.Documents, doc)
		if i < len(topics) {
			c.Cases = append(c.Cases, QueryCase{
				Query:          doc.Content,
				ExpectedSource: doc.SourceID,
				Description:    topic.slug,
			})
		}
	}
	return c
}
