package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/invites/domain"
	"github.com/aussiebroadwan/tenancy/internal/invites/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// fallbackLandlordName is used in emails when the landlord has no profile.
const fallbackLandlordName = "Landlord"

// discardTimeout bounds the cleanup of an invitation whose email failed.
const discardTimeout = 5 * time.Second

// InvitationService owns the invitation state machine. It is the only
// writer of invitation status.
type InvitationService struct {
	Store    store.Store
	Notifier Notifier
	Hasher   cryptox.PasswordHasher
	Policy   domain.PropertyPolicy

	// TTL is added to the creation time to get ExpiresAt. Zero means 30 days.
	TTL time.Duration

	// Clock and NewCode are replaced in tests.
	Clock   func() time.Time
	NewCode func() (string, error)
}

// Now is the service clock in UTC.
func (s *InvitationService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return domain.DefaultInvitationTTL
}

func (s *InvitationService) policy() domain.PropertyPolicy {
	if s.Policy == "" {
		return domain.PolicyStrict
	}
	return s.Policy
}

func (s *InvitationService) newCode() (string, error) {
	if s.NewCode != nil {
		return s.NewCode()
	}
	return NewInvitationCode()
}

type SendInvitationInput struct {
	LandlordID   string `json:"landlord_id" validate:"required"`
	Email        string `json:"email" validate:"required,email,max=254"`
	PropertyID   string `json:"property_id" validate:"required"`
	PropertyName string `json:"property_name" validate:"max=200"`
}

type SentInvitation struct {
	ID        string
	Code      string
	ExpiresAt time.Time
}

// SendInvitation creates a pending invitation for a landlord's property and
// emails the code to the tenant.
func (s *InvitationService) SendInvitation(ctx context.Context, in SendInvitationInput) (SentInvitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	if err := validateInput(in); err != nil {
		invitationsRejectedMetric.WithLabelValues("invalid_request").Inc()
		return SentInvitation{}, err
	}
	email := domain.NormalizeEmail(in.Email)

	// 2. The property must belong to the landlord
	property, err := s.Store.Properties().GetPropertyByID(ctx, in.PropertyID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to fetch property", slog.String("property_id", in.PropertyID), slog.Any("error", err))
		return SentInvitation{}, err
	}
	if err != nil || property.LandlordID != in.LandlordID {
		log.Warn("invitation for unknown or foreign property",
			slog.String("property_id", in.PropertyID),
			slog.String("landlord_id", in.LandlordID),
		)
		invitationsRejectedMetric.WithLabelValues("property_not_found").Inc()
		return SentInvitation{}, ErrPropertyNotFound
	}
	propertyName := in.PropertyName
	if propertyName == "" {
		propertyName = property.Name
	}

	now := s.Now()
	inv := domain.Invitation{
		ID:           idx.NewAt(now),
		Email:        email,
		PropertyID:   property.ID,
		PropertyName: propertyName,
		LandlordID:   in.LandlordID,
		Status:       domain.StatusPending,
		ExpiresAt:    now.Add(s.ttl()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. Check conflicts and insert against one snapshot. Stale rows expired
	// here only count once the transaction commits.
	var expired expiries
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		expired = expired[:0]
		if err := s.checkTenantFree(ctx, tx, email, now, &expired); err != nil {
			return err
		}
		if s.policy() == domain.PolicyStrict {
			if err := s.checkPropertyFree(ctx, tx, property, now, &expired); err != nil {
				return err
			}
		}
		return s.insertWithFreshCode(ctx, tx, &inv)
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			log.Warn("invitation rejected",
				slog.String("reason", conflict.Err.Error()),
				slog.String("property_id", property.ID),
				slog.String("conflicting_property", conflict.PropertyName),
			)
			invitationsRejectedMetric.WithLabelValues(reasonLabel(conflict.Err)).Inc()
			return SentInvitation{}, err
		}
		log.Error("failed to create invitation", slog.String("property_id", property.ID), slog.Any("error", err))
		return SentInvitation{}, err
	}
	expired.report(ctx)

	// 4. Resolve landlord display name
	landlordName := fallbackLandlordName
	if landlord, err := s.Store.Users().GetUserByID(ctx, in.LandlordID); err == nil && landlord.DisplayName() != "" {
		landlordName = landlord.DisplayName()
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn("failed to resolve landlord name", slog.Any("error", err))
	}

	// 5. Deliver, or undo the insert
	if err := s.Notifier.SendInvitationEmail(ctx, email, propertyName, inv.Code, landlordName); err != nil {
		log.Error("invitation email failed, removing invitation",
			slog.String("invitation_id", inv.ID),
			slog.String("property_id", property.ID),
			slog.Any("error", err),
		)
		s.discardUndelivered(ctx, inv)
		invitationsRejectedMetric.WithLabelValues("notification_failed").Inc()
		return SentInvitation{}, fmt.Errorf("%w: %v", ErrNotificationDeliveryFailed, err)
	}

	invitationsSentMetric.Inc()
	log.Info("invitation sent",
		slog.String("invitation_id", inv.ID),
		slog.String("property_id", property.ID),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	return SentInvitation{ID: inv.ID, Code: inv.Code, ExpiresAt: inv.ExpiresAt}, nil
}

// discardUndelivered removes an invitation whose email never went out. It
// runs detached from ctx, which may be the reason delivery failed. When the
// delete fails the row is cancelled instead so it stops counting as live.
func (s *InvitationService) discardUndelivered(ctx context.Context, inv domain.Invitation) {
	log := slogx.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	err := s.Store.Invitations().DeleteInvitation(ctx, inv.ID)
	if err == nil || errors.Is(err, store.ErrNotFound) {
		return
	}
	log.Error("failed to remove undelivered invitation",
		slog.String("invitation_id", inv.ID),
		slog.Any("error", err),
	)

	err = s.Store.Invitations().UpdateInvitationStatus(ctx, inv.ID, domain.StatusPending, domain.StatusCancelled, s.Now())
	if err != nil && !errors.Is(err, store.ErrConflict) && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to cancel undelivered invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return
	}
	if err == nil {
		invitationTransitionsMetric.WithLabelValues(string(domain.StatusCancelled)).Inc()
		log.Warn("undelivered invitation cancelled", slog.String("invitation_id", inv.ID))
	}
}

// checkTenantFree expires stale pending rows for the email, then rejects
// the email if it is placed or still holds a live invitation.
func (s *InvitationService) checkTenantFree(
	ctx context.Context,
	st store.Store,
	email string,
	now time.Time,
	expired *expiries,
) error {
	accepted, err := st.Invitations().FindByEmailAndStatus(ctx, email, domain.StatusAccepted)
	if err != nil {
		return err
	}

	pending, err := st.Invitations().FindByEmailAndStatus(ctx, email, domain.StatusPending)
	if err != nil {
		return err
	}
	live, err := s.expireStale(ctx, st, pending, now, expired)
	if err != nil {
		return err
	}

	if len(accepted) > 0 {
		return &ConflictError{Err: ErrTenantAlreadyPlaced, PropertyName: accepted[0].PropertyName}
	}
	if len(live) > 0 {
		return &ConflictError{Err: ErrTenantInviteInFlight, PropertyName: live[0].PropertyName}
	}
	return nil
}

// checkPropertyFree rejects a property that already has an active
// invitation.
func (s *InvitationService) checkPropertyFree(
	ctx context.Context,
	st store.Store,
	p domain.Property,
	now time.Time,
	expired *expiries,
) error {
	invs, err := st.Invitations().ListByProperty(ctx, p.ID)
	if err != nil {
		return err
	}
	invs, err = s.expireStaleInPlace(ctx, st, invs, now, expired)
	if err != nil {
		return err
	}
	for _, inv := range invs {
		if inv.IsActive(now) {
			return &ConflictError{Err: ErrPropertyAlreadyInvited, PropertyName: p.Name}
		}
	}
	return nil
}

func (s *InvitationService) insertWithFreshCode(ctx context.Context, st store.Store, inv *domain.Invitation) error {
	for range maxCodeAttempts {
		code, err := s.newCode()
		if err != nil {
			return fmt.Errorf("generate invitation code: %w", err)
		}
		inv.Code = domain.NormalizeCode(code)

		err = st.Invitations().CreateInvitation(ctx, *inv)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, store.ErrDuplicateCode):
			slogx.FromContext(ctx).Debug("invitation code collision, retrying")
			continue
		case errors.Is(err, store.ErrAlreadyExists):
			// The pending-per-email index caught what checkTenantFree saw as free.
			return &ConflictError{Err: ErrTenantInviteInFlight}
		default:
			return err
		}
	}
	return ErrCodeSpaceExhausted
}

type ValidatedInvitation struct {
	ID           string
	Email        string
	PropertyID   string
	PropertyName string
	LandlordID   string
	ExpiresAt    time.Time
}

// ValidateCode checks that a code names a live pending invitation. A stale
// one is marked expired before the error is returned. A non-empty
// emailHint must match the invited address.
func (s *InvitationService) ValidateCode(ctx context.Context, code, emailHint string) (ValidatedInvitation, error) {
	log := slogx.FromContext(ctx)

	inv, err := s.lookupLiveCode(ctx, code, s.Now())
	if err != nil {
		return ValidatedInvitation{}, err
	}

	if emailHint != "" && domain.NormalizeEmail(emailHint) != inv.Email {
		log.Warn("invitation code used with another email", slog.String("invitation_id", inv.ID))
		invitationsRejectedMetric.WithLabelValues(string(ReasonWrongEmail)).Inc()
		return ValidatedInvitation{}, &CodeError{Reason: ReasonWrongEmail}
	}

	return ValidatedInvitation{
		ID:           inv.ID,
		Email:        inv.Email,
		PropertyID:   inv.PropertyID,
		PropertyName: inv.PropertyName,
		LandlordID:   inv.LandlordID,
		ExpiresAt:    inv.ExpiresAt,
	}, nil
}

func (s *InvitationService) lookupLiveCode(ctx context.Context, code string, now time.Time) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	code = domain.NormalizeCode(code)
	if code == "" {
		return domain.Invitation{}, &CodeError{Reason: ReasonNotFound}
	}

	inv, err := s.Store.Invitations().GetInvitationByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("unknown invitation code")
		invitationsRejectedMetric.WithLabelValues(string(ReasonNotFound)).Inc()
		return domain.Invitation{}, &CodeError{Reason: ReasonNotFound}
	}
	if err != nil {
		log.Error("failed to fetch invitation by code", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	if inv.Status != domain.StatusPending {
		log.Warn("invitation code no longer pending",
			slog.String("invitation_id", inv.ID),
			slog.String("status", string(inv.Status)),
		)
		invitationsRejectedMetric.WithLabelValues(string(ReasonNotPending)).Inc()
		return domain.Invitation{}, &CodeError{Reason: ReasonNotPending, Status: inv.Status}
	}

	if reason := inv.ExpiryReason(now); reason != domain.NotExpired {
		ok, err := s.expireInvitation(ctx, s.Store, inv, now)
		if err != nil {
			return domain.Invitation{}, err
		}
		if ok {
			reportExpired(ctx, inv, reason)
		}
		invitationsRejectedMetric.WithLabelValues(string(reason)).Inc()
		return domain.Invitation{}, &CodeError{Reason: CodeReason(reason)}
	}

	return inv, nil
}

type AcceptInvitationInput struct {
	Code   string `json:"code" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	UserID string `json:"user_id" validate:"required"`
}

type AcceptedInvitation struct {
	InvitationID string
	PropertyID   string
	PropertyName string
	TenantID     string
}

// AcceptInvitation consumes a code for an existing tenant account and links
// the tenant to the property.
func (s *InvitationService) AcceptInvitation(ctx context.Context, in AcceptInvitationInput) (AcceptedInvitation, error) {
	log := slogx.FromContext(ctx)

	if err := validateInput(in); err != nil {
		return AcceptedInvitation{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, in.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return AcceptedInvitation{}, ErrUserNotFound
	}
	if err != nil {
		return AcceptedInvitation{}, err
	}
	if user.Email != domain.NormalizeEmail(in.Email) {
		log.Warn("accepting user does not own the email", slog.String("user_id", user.ID))
		return AcceptedInvitation{}, ErrNotTenantEmail
	}

	v, err := s.ValidateCode(ctx, in.Code, in.Email)
	if err != nil {
		return AcceptedInvitation{}, err
	}

	var accepted AcceptedInvitation
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		accepted, err = s.acceptInTx(ctx, tx, v.ID, user, s.Now())
		return err
	})
	if err != nil {
		return AcceptedInvitation{}, s.logAcceptFailure(ctx, v.ID, err)
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", accepted.InvitationID),
		slog.String("property_id", accepted.PropertyID),
		slog.String("tenant_id", accepted.TenantID),
	)
	return accepted, nil
}

// acceptInTx re-reads the invitation under the write lock, swaps it to
// accepted and stamps the property.
func (s *InvitationService) acceptInTx(
	ctx context.Context,
	tx store.Tx,
	invitationID string,
	tenant domain.User,
	now time.Time,
) (AcceptedInvitation, error) {
	inv, err := tx.Invitations().GetInvitationByID(ctx, invitationID)
	if errors.Is(err, store.ErrNotFound) {
		return AcceptedInvitation{}, &CodeError{Reason: ReasonNotFound}
	}
	if err != nil {
		return AcceptedInvitation{}, err
	}
	if inv.Status != domain.StatusPending {
		return AcceptedInvitation{}, &CodeError{Reason: ReasonNotPending, Status: inv.Status}
	}
	if reason := inv.ExpiryReason(now); reason != domain.NotExpired {
		return AcceptedInvitation{}, &CodeError{Reason: CodeReason(reason)}
	}

	err = tx.Invitations().MarkInvitationAccepted(ctx, inv.ID, tenant.Username, now)
	switch {
	case errors.Is(err, store.ErrConflict):
		return AcceptedInvitation{}, &CodeError{Reason: ReasonNotPending}
	case errors.Is(err, store.ErrAlreadyExists):
		return AcceptedInvitation{}, &ConflictError{Err: ErrTenantAlreadyPlaced, PropertyName: inv.PropertyName}
	case err != nil:
		return AcceptedInvitation{}, err
	}

	link := domain.TenantLink{
		TenantID:    tenant.ID,
		TenantEmail: inv.Email,
		TenantName:  tenant.DisplayName(),
		Status:      domain.PropertyRented,
	}
	if err := tx.Properties().UpdateTenantLink(ctx, inv.PropertyID, link, now); err != nil {
		return AcceptedInvitation{}, fmt.Errorf("link tenant to property %s: %w", inv.PropertyID, err)
	}

	invitationTransitionsMetric.WithLabelValues(string(domain.StatusAccepted)).Inc()
	return AcceptedInvitation{
		InvitationID: inv.ID,
		PropertyID:   inv.PropertyID,
		PropertyName: inv.PropertyName,
		TenantID:     tenant.ID,
	}, nil
}

func (s *InvitationService) logAcceptFailure(ctx context.Context, invitationID string, err error) error {
	log := slogx.FromContext(ctx)

	var codeErr *CodeError
	var conflict *ConflictError
	switch {
	case errors.As(err, &codeErr):
		log.Warn("invitation acceptance refused",
			slog.String("invitation_id", invitationID),
			slog.String("reason", string(codeErr.Reason)),
		)
	case errors.As(err, &conflict), errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		log.Warn("invitation acceptance refused",
			slog.String("invitation_id", invitationID),
			slog.Any("error", err),
		)
	default:
		log.Error("failed to accept invitation",
			slog.String("invitation_id", invitationID),
			slog.Any("error", err),
		)
	}
	return err
}

type RegisterTenantInput struct {
	Code     string `json:"code" validate:"required"`
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RegisteredTenant struct {
	User       domain.User
	Invitation AcceptedInvitation
}

// RegisterTenant creates the tenant account and accepts the invitation in
// one transaction.
func (s *InvitationService) RegisterTenant(ctx context.Context, in RegisterTenantInput) (RegisteredTenant, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	if err := validateInput(in); err != nil {
		return RegisteredTenant{}, err
	}

	// 2. The code must be live and issued to this email
	v, err := s.ValidateCode(ctx, in.Code, in.Email)
	if err != nil {
		return RegisteredTenant{}, err
	}

	// 3. Hash the password using Argon2id
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return RegisteredTenant{}, err
	}

	// 4. Create the user and accept atomically
	now := s.Now()
	user := domain.User{
		ID:           idx.NewAt(now),
		Email:        v.Email,
		FullName:     in.FullName,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         domain.RoleTenant,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var accepted AcceptedInvitation
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Users().CreateUser(ctx, user)
		switch {
		case errors.Is(err, store.ErrDuplicateUsername):
			return ErrUsernameTaken
		case errors.Is(err, store.ErrDuplicateEmail):
			return ErrEmailTaken
		case err != nil:
			return err
		}

		accepted, err = s.acceptInTx(ctx, tx, v.ID, user, now)
		return err
	})
	if err != nil {
		return RegisteredTenant{}, s.logAcceptFailure(ctx, v.ID, err)
	}

	log.Info("tenant registered via invitation",
		slog.String("user_id", user.ID),
		slog.String("invitation_id", accepted.InvitationID),
		slog.String("property_id", accepted.PropertyID),
	)
	return RegisteredTenant{User: user, Invitation: accepted}, nil
}

// CancelInvitation withdraws a landlord's pending invitation. The notice to
// the tenant is best-effort.
func (s *InvitationService) CancelInvitation(ctx context.Context, landlordID, invitationID string) error {
	log := slogx.FromContext(ctx)
	now := s.Now()

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFoundOrNotOwned
	}
	if err != nil {
		log.Error("failed to fetch invitation", slog.String("invitation_id", invitationID), slog.Any("error", err))
		return err
	}
	if inv.LandlordID != landlordID || inv.Status != domain.StatusPending {
		log.Warn("cancel refused",
			slog.String("invitation_id", inv.ID),
			slog.String("status", string(inv.Status)),
		)
		return ErrNotFoundOrNotOwned
	}

	if reason := inv.ExpiryReason(now); reason != domain.NotExpired {
		ok, err := s.expireInvitation(ctx, s.Store, inv, now)
		if err != nil {
			return err
		}
		if ok {
			reportExpired(ctx, inv, reason)
		}
		return ErrNotFoundOrNotOwned
	}

	err = s.Store.Invitations().UpdateInvitationStatus(ctx, inv.ID, domain.StatusPending, domain.StatusCancelled, now)
	if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound) {
		return ErrNotFoundOrNotOwned
	}
	if err != nil {
		log.Error("failed to cancel invitation", slog.String("invitation_id", inv.ID), slog.Any("error", err))
		return err
	}
	invitationTransitionsMetric.WithLabelValues(string(domain.StatusCancelled)).Inc()

	log.Info("invitation cancelled",
		slog.String("invitation_id", inv.ID),
		slog.String("property_id", inv.PropertyID),
	)

	if err := s.Notifier.SendCancellationEmail(ctx, inv.Email, inv.PropertyName); err != nil {
		log.Warn("cancellation email failed", slog.String("invitation_id", inv.ID), slog.Any("error", err))
	}
	return nil
}

// SweepExpired moves every stale pending invitation to expired and returns
// how many it moved.
func (s *InvitationService) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	log := slogx.FromContext(ctx)
	now = now.UTC()

	stale, err := s.Store.Invitations().ListStalePending(ctx, now, now.Add(-domain.MaxPendingAge))
	if err != nil {
		sweepRunsMetric.WithLabelValues("error").Inc()
		log.Error("failed to list stale invitations", slog.Any("error", err))
		return 0, err
	}

	expired := 0
	for _, inv := range stale {
		reason := inv.ExpiryReason(now)
		if reason == domain.NotExpired {
			continue
		}
		ok, err := s.expireInvitation(ctx, s.Store, inv, now)
		if err != nil {
			sweepRunsMetric.WithLabelValues("error").Inc()
			return expired, err
		}
		if ok {
			reportExpired(ctx, inv, reason)
			expired++
		}
	}

	sweepRunsMetric.WithLabelValues("ok").Inc()
	if expired > 0 {
		log.Info("expired stale invitations", slog.Int("count", expired))
	}
	return expired, nil
}

// expireInvitation is the single path from pending to expired. It reports
// false when another writer resolved the invitation first. The caller
// reports the transition once it is durable.
func (s *InvitationService) expireInvitation(
	ctx context.Context,
	st store.Store,
	inv domain.Invitation,
	now time.Time,
) (bool, error) {
	err := st.Invitations().UpdateInvitationStatus(ctx, inv.ID, domain.StatusPending, domain.StatusExpired, now)
	if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to expire invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return false, err
	}
	return true, nil
}

func reportExpired(ctx context.Context, inv domain.Invitation, reason domain.ExpiryReason) {
	invitationTransitionsMetric.WithLabelValues(string(domain.StatusExpired)).Inc()
	slogx.FromContext(ctx).Info("invitation expired",
		slog.String("invitation_id", inv.ID),
		slog.String("property_id", inv.PropertyID),
		slog.String("reason", string(reason)),
	)
}

type expiry struct {
	inv    domain.Invitation
	reason domain.ExpiryReason
}

// expiries holds swaps made inside a transaction until it commits.
type expiries []expiry

func (e expiries) report(ctx context.Context) {
	for _, x := range e {
		reportExpired(ctx, x.inv, x.reason)
	}
}

// expireStale expires the stale entries of invs and returns the rest.
func (s *InvitationService) expireStale(
	ctx context.Context,
	st store.Store,
	invs []domain.Invitation,
	now time.Time,
	expired *expiries,
) ([]domain.Invitation, error) {
	live := invs[:0:0]
	for _, inv := range invs {
		reason := inv.ExpiryReason(now)
		if reason == domain.NotExpired {
			live = append(live, inv)
			continue
		}
		ok, err := s.expireInvitation(ctx, st, inv, now)
		if err != nil {
			return nil, err
		}
		if ok {
			*expired = append(*expired, expiry{inv, reason})
		}
	}
	return live, nil
}

// expireStaleInPlace expires stale entries and reports them as expired in
// the returned slice, keeping order.
func (s *InvitationService) expireStaleInPlace(
	ctx context.Context,
	st store.Store,
	invs []domain.Invitation,
	now time.Time,
	expired *expiries,
) ([]domain.Invitation, error) {
	for i, inv := range invs {
		reason := inv.ExpiryReason(now)
		if reason == domain.NotExpired {
			continue
		}
		ok, err := s.expireInvitation(ctx, st, inv, now)
		if err != nil {
			return nil, err
		}
		if ok {
			*expired = append(*expired, expiry{inv, reason})
		}
		invs[i].Status = domain.StatusExpired
		invs[i].UpdatedAt = now
	}
	return invs, nil
}

// ListByProperty returns a landlord's invitations for one property, newest
// first, expiring stale ones on the way.
func (s *InvitationService) ListByProperty(ctx context.Context, landlordID, propertyID string) ([]domain.Invitation, error) {
	p, err := s.Store.Properties().GetPropertyByID(ctx, propertyID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && p.LandlordID != landlordID) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}

	invs, err := s.Store.Invitations().ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	var expired expiries
	invs, err = s.expireStaleInPlace(ctx, s.Store, invs, s.Now(), &expired)
	expired.report(ctx)
	return invs, err
}

func (s *InvitationService) ListAcceptedByLandlord(ctx context.Context, landlordID string) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListByLandlordAndStatus(ctx, landlordID, domain.StatusAccepted)
}

func (s *InvitationService) ListAcceptedByTenant(ctx context.Context, tenantUserID string) ([]domain.Invitation, error) {
	user, err := s.tenant(ctx, tenantUserID)
	if err != nil {
		return nil, err
	}
	return s.Store.Invitations().FindByEmailAndStatus(ctx, user.Email, domain.StatusAccepted)
}

// TenantHistory lists every invitation ever sent to the tenant's email.
func (s *InvitationService) TenantHistory(ctx context.Context, tenantUserID string) ([]domain.Invitation, error) {
	user, err := s.tenant(ctx, tenantUserID)
	if err != nil {
		return nil, err
	}
	invs, err := s.Store.Invitations().ListByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	var expired expiries
	invs, err = s.expireStaleInPlace(ctx, s.Store, invs, s.Now(), &expired)
	expired.report(ctx)
	return invs, err
}

func (s *InvitationService) tenant(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// Eligibility reasons.
const (
	IneligibleAlreadyPlaced  = "tenant_already_placed"
	IneligibleInviteInFlight = "invite_in_flight"
)

type Eligibility struct {
	Eligible bool
	Reason   string
	Message  string
	Existing *domain.Invitation
}

// CheckEligibility tells a landlord up front whether an email could receive
// an invitation right now. Property conflicts are not considered.
func (s *InvitationService) CheckEligibility(ctx context.Context, email string) (Eligibility, error) {
	if err := validateInput(struct {
		Email string `json:"email" validate:"required,email"`
	}{email}); err != nil {
		return Eligibility{}, err
	}

	email = domain.NormalizeEmail(email)
	var expired expiries
	err := s.checkTenantFree(ctx, s.Store, email, s.Now(), &expired)
	expired.report(ctx)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		if err != nil {
			return Eligibility{}, err
		}
		return Eligibility{Eligible: true}, nil
	}

	status := domain.StatusPending
	reason := IneligibleInviteInFlight
	if errors.Is(conflict, ErrTenantAlreadyPlaced) {
		status, reason = domain.StatusAccepted, IneligibleAlreadyPlaced
	}
	existing, err := s.Store.Invitations().FindByEmailAndStatus(ctx, email, status)
	if err != nil {
		return Eligibility{}, err
	}

	out := Eligibility{Reason: reason, Message: conflict.Error()}
	if len(existing) > 0 {
		out.Existing = &existing[0]
	}
	return out, nil
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, ErrTenantAlreadyPlaced):
		return "tenant_already_placed"
	case errors.Is(err, ErrTenantInviteInFlight):
		return "tenant_invite_in_flight"
	case errors.Is(err, ErrPropertyAlreadyInvited):
		return "property_already_invited"
	}
	return "other"
}
