package email

import (
	"context"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/backoffice/internal/observability/logger"
)

// SMTPConfig configura el sender SMTP.
type SMTPConfig struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

// SMTPNotifier implementa Notifier sobre SMTP con go-mail.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTP crea un SMTPNotifier.
func NewSMTP(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// NotifyRoleRevoked avisa al usuario que un rol que tenía fue eliminado.
// El envío es sincrónico pero best-effort: el error solo se loguea.
func (n *SMTPNotifier) NotifyRoleRevoked(ctx context.Context, to, roleName string) {
	log := logger.From(ctx).With(
		logger.Component("email"),
		logger.Email(to),
		logger.RoleName(roleName),
	)

	m := mail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Tu acceso cambió")
	m.SetBody("text/plain", fmt.Sprintf(
		"El rol %q fue eliminado del sistema y ya no forma parte de tus accesos.\n"+
			"Si creés que es un error, contactá a tu administrador.\n", roleName))

	d := mail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Pass)
	if err := d.DialAndSend(m); err != nil {
		log.Warn("notification send failed", logger.Err(err))
		return
	}
	log.Debug("revocation notice sent")
}
