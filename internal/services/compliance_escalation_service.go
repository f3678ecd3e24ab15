package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/propworks/compliance-service/internal/config"
	"github.com/propworks/compliance-service/internal/constants"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
	"github.com/propworks/compliance-service/internal/utils"
)

const escalationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Compliance Escalation</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; background-color: #fcf8e3; color: #8a6d3b; margin: 0; padding: 20px; }
  .container { max-width: 600px; margin: auto; background: #fff; border: 1px solid #faebcc; border-radius: 8px; }
  .header { background-color: #fcf8e3; padding: 15px 20px; border-bottom: 1px solid #faebcc; }
  .header h1 { margin: 0; font-size: 20px; color: #8a6d3b; }
  .content { padding: 20px; }
  ul { list-style: none; padding: 0; }
  li { padding: 8px; border-bottom: 1px solid #eee; }
  li:last-child { border-bottom: none; }
  .footer { padding: 10px 20px; font-size: 12px; color: #999; border-top: 1px solid #eee; }
</style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>%s</h1></div>
    <div class="content">
      <p>The following items need attention:</p>
      <ul>%s</ul>
    </div>
    <div class="footer">Generated %s</div>
  </div>
</body>
</html>`

// escalationFinding is one overdue obligation or blown-SLA job picked up by
// a sweep.
type escalationFinding struct {
	PropertyName string
	Detail       string
}

func (f escalationFinding) String() string {
	return fmt.Sprintf("%s: %s", f.PropertyName, f.Detail)
}

// ComplianceEscalationService periodically sweeps the portfolio and notifies
// the on-call contacts about expired obligations nobody is working and open
// jobs past their SLA date. It is strictly an observer: it never mutates
// engine state.
type ComplianceEscalationService struct {
	cfg            *config.Config
	store          *repositories.Store
	twilioClient   *twilio.RestClient
	sendgridClient *sendgrid.Client
}

func NewComplianceEscalationService(cfg *config.Config, store *repositories.Store) *ComplianceEscalationService {
	s := &ComplianceEscalationService{cfg: cfg, store: store}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		s.twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	if cfg.SendGridAPIKey != "" {
		s.sendgridClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return s
}

// RunEscalationSweep scans a snapshot and dispatches one combined alert when
// anything is found. Delivery failures are logged and never propagated.
func (s *ComplianceEscalationService) RunEscalationSweep(ctx context.Context) error {
	utils.Logger.Debug("Running compliance escalation sweep...")

	now := time.Now().UTC()
	findings := s.collectFindings(now)
	if len(findings) == 0 {
		return nil
	}

	utils.Logger.Infof("Escalation sweep found %d item(s) needing attention", len(findings))
	s.notify(ctx, findings, now)
	return nil
}

func (s *ComplianceEscalationService) collectFindings(now time.Time) []escalationFinding {
	snap := s.store.Snapshot()
	var findings []escalationFinding

	for _, p := range snap.Properties {
		for _, item := range p.ComplianceItems {
			if item.Superseded {
				continue
			}
			if EvaluateStatusDefault(item, now) != models.StatusExpired {
				continue
			}
			covered := false
			for _, j := range p.MaintenanceJobs {
				if j.LinkedComplianceID != nil && *j.LinkedComplianceID == item.ID &&
					!models.IsTerminalJobStatus(j.Status) {
					covered = true
					break
				}
			}
			if !covered {
				findings = append(findings, escalationFinding{
					PropertyName: p.Name,
					Detail:       fmt.Sprintf("%s certificate expired with no job in flight", item.Type),
				})
			}
		}

		for _, j := range p.MaintenanceJobs {
			if models.IsTerminalJobStatus(j.Status) || j.SLADueDate == nil {
				continue
			}
			if now.After(j.SLADueDate.Add(constants.SLAGraceBeforeEscalation)) {
				findings = append(findings, escalationFinding{
					PropertyName: p.Name,
					Detail: fmt.Sprintf("job %s (%s) is %s past its SLA due date",
						j.Ref, j.Category, now.Sub(*j.SLADueDate).Round(time.Hour)),
				})
			}
		}
	}
	return findings
}

func (s *ComplianceEscalationService) notify(ctx context.Context, findings []escalationFinding, now time.Time) {
	subject := fmt.Sprintf("Compliance escalation: %d item(s) need attention", len(findings))

	var plain strings.Builder
	var htmlItems strings.Builder
	for _, f := range findings {
		plain.WriteString("- " + f.String() + "\n")
		htmlItems.WriteString("<li>" + f.String() + "</li>")
	}

	if s.twilioClient != nil && s.cfg.EscalationPhone != "" {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(s.cfg.EscalationPhone)
		params.SetFrom(s.cfg.TwilioFromPhone)
		params.SetBody(subject + " :: " + plain.String())
		if _, smsErr := s.twilioClient.Api.CreateMessage(params); smsErr != nil {
			utils.Logger.WithError(smsErr).Warn("Failed to send escalation SMS")
		}
	} else {
		utils.Logger.Debug("Twilio not configured, skipping escalation SMS")
	}

	if s.sendgridClient != nil && s.cfg.EscalationEmail != "" {
		htmlBody := fmt.Sprintf(escalationEmailHTML, subject, htmlItems.String(),
			now.Format(time.RFC1123Z))
		from := mail.NewEmail(s.cfg.OrganizationName, s.cfg.SendGridFromEmail)
		to := mail.NewEmail("On-call", s.cfg.EscalationEmail)
		msg := mail.NewSingleEmail(from, subject, to, plain.String(), htmlBody)
		if s.cfg.SendGridSandboxMode {
			ms := mail.NewMailSettings()
			ms.SetSandboxMode(mail.NewSetting(true))
			msg.MailSettings = ms
		}
		if _, sgErr := s.sendgridClient.Send(msg); sgErr != nil {
			utils.Logger.WithError(sgErr).Warn("Failed to send escalation email")
		}
	} else {
		utils.Logger.Debug("SendGrid not configured, skipping escalation email")
	}
}
