package socialrelay

import (
	"context"
	"sort"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-social-relay/core"
	"github.com/goliatone/go-social-relay/transport"
)

// Service routes the five relay operations to registered adapters and owns
// the ambient concerns around them: config resolution, structured logging
// with redacted fields, and error envelope normalization.
type Service struct {
	config          core.Config
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	transport       core.TransportAdapter
	registry        core.Registry
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	authRequests    core.AuthRequestStore
	sessions        core.SessionStore
}

type ServiceDependencies struct {
	Logger          core.Logger
	LoggerProvider  core.LoggerProvider
	Transport       core.TransportAdapter
	Registry        core.Registry
	ConfigProvider  core.ConfigProvider
	OptionsResolver core.OptionsResolver
	AuthRequests    core.AuthRequestStore
	Sessions        core.SessionStore
}

type Option func(*serviceBuilder)

type serviceBuilder struct {
	runtimeConfig   core.Config
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	transport       core.TransportAdapter
	registry        core.Registry
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	authRequests    core.AuthRequestStore
	sessions        core.SessionStore
	adapters        []core.Adapter
	skipDefaults    bool
}

func WithLogger(logger core.Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithTransport(adapter core.TransportAdapter) Option {
	return func(b *serviceBuilder) {
		b.transport = adapter
	}
}

func WithRegistry(registry core.Registry) Option {
	return func(b *serviceBuilder) {
		b.registry = registry
	}
}

func WithAdapter(adapter core.Adapter) Option {
	return func(b *serviceBuilder) {
		if adapter != nil {
			b.adapters = append(b.adapters, adapter)
		}
	}
}

// WithoutDefaultAdapters skips registration of the built-in Mastodon adapter
// so hosts can run a registry holding only their own implementations.
func WithoutDefaultAdapters() Option {
	return func(b *serviceBuilder) {
		b.skipDefaults = true
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

func WithAuthRequestStore(store core.AuthRequestStore) Option {
	return func(b *serviceBuilder) {
		b.authRequests = store
	}
}

func WithSessionStore(store core.SessionStore) Option {
	return func(b *serviceBuilder) {
		b.sessions = store
	}
}

func NewService(cfg core.Config, opts ...Option) (*Service, error) {
	builder := serviceBuilder{runtimeConfig: cfg}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("social-relay", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("social-relay"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.configProvider == nil {
		builder.configProvider = core.NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = core.GoOptionsResolver{}
	}
	if builder.registry == nil {
		builder.registry = core.NewAdapterRegistry()
	}
	if builder.authRequests == nil {
		builder.authRequests = core.NewMemoryAuthRequestStore(0)
	}
	if builder.transport == nil {
		builder.transport = transport.NewRESTAdapter(nil)
	}

	defaults := core.DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, core.MapError(err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, core.MapError(err)
	}

	for _, adapter := range builder.adapters {
		if registerErr := builder.registry.Register(adapter); registerErr != nil {
			return nil, core.MapError(registerErr)
		}
	}
	if !builder.skipDefaults {
		if err := registerDefaultAdapters(builder.registry, finalConfig, builder.transport, logger); err != nil {
			return nil, core.MapError(err)
		}
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		transport:       builder.transport,
		registry:        builder.registry,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		authRequests:    builder.authRequests,
		sessions:        builder.sessions,
	}, nil
}

func Setup(cfg core.Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func (s *Service) Config() core.Config {
	if s == nil {
		return core.Config{}
	}
	return s.config
}

func (s *Service) Registry() core.Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:          s.logger,
		LoggerProvider:  s.loggerProvider,
		Transport:       s.transport,
		Registry:        s.registry,
		ConfigProvider:  s.configProvider,
		OptionsResolver: s.optionsResolver,
		AuthRequests:    s.authRequests,
		Sessions:        s.sessions,
	}
}

func (s *Service) RegisterClient(ctx context.Context, adapterID string, req core.RegisterClientRequest) (client core.RegisteredClient, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id":  adapterID,
		"client_name": req.Name,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "register_client", err, fields)
	}()

	adapter, err := s.resolveAdapter(adapterID)
	if err != nil {
		return core.RegisteredClient{}, err
	}
	client, err = adapter.RegisterClient(ctx, req)
	if err != nil {
		err = core.MapError(err)
		return core.RegisteredClient{}, err
	}
	return client, nil
}

func (s *Service) BuildAuthorizationURL(ctx context.Context, adapterID string, req core.BuildAuthorizationURLRequest) (request core.AuthorizationRequest, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id": adapterID,
	}
	defer func() {
		if request.RequestID != "" {
			fields["request_id"] = request.RequestID
		}
		s.observeOperation(ctx, startedAt, "build_authorization_url", err, fields)
	}()

	adapter, err := s.resolveAdapter(adapterID)
	if err != nil {
		return core.AuthorizationRequest{}, err
	}
	request, err = adapter.BuildAuthorizationURL(ctx, req)
	if err != nil {
		err = core.MapError(err)
		return core.AuthorizationRequest{}, err
	}

	if s.authRequests != nil {
		if saveErr := s.authRequests.Save(ctx, request); saveErr != nil {
			err = core.MapError(saveErr)
			return core.AuthorizationRequest{}, err
		}
	}
	return request, nil
}

// ConsumeAuthRequest verifies a callback state against the drafts retained by
// BuildAuthorizationURL. Each state verifies at most once; hosts that verify
// the round trip out of process never need to call it.
func (s *Service) ConsumeAuthRequest(ctx context.Context, state string) (core.AuthorizationRequest, error) {
	if s == nil || s.authRequests == nil {
		return core.AuthorizationRequest{}, core.MapError(core.NewBadInputError("socialrelay: auth request store is not configured"))
	}
	request, err := s.authRequests.Consume(ctx, state)
	if err != nil {
		return core.AuthorizationRequest{}, core.MapError(err)
	}
	return request, nil
}

func (s *Service) Exchange(ctx context.Context, adapterID string, req core.ExchangeRequest) (result core.ExchangeResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id": adapterID,
	}
	defer func() {
		if result.Session.ID != "" {
			fields["session_id"] = result.Session.ID
		}
		s.observeOperation(ctx, startedAt, "exchange_code", err, fields)
	}()

	adapter, err := s.resolveAdapter(adapterID)
	if err != nil {
		return core.ExchangeResult{}, err
	}
	result, err = adapter.Exchange(ctx, req)
	if err != nil {
		err = core.MapError(err)
		return core.ExchangeResult{}, err
	}

	// The token is already issued; a storage failure downgrades to a warning
	// instead of rolling the session back.
	if s.sessions != nil {
		saved, saveErr := s.sessions.Save(ctx, result.Session)
		if saveErr != nil {
			s.logWarn(ctx, "session persistence failed", map[string]any{
				"adapter_id": adapterID,
				"error":      saveErr.Error(),
			})
			result.Warnings = append(result.Warnings, "session persistence failed: "+saveErr.Error())
		} else {
			result.Session = saved
		}
	}
	return result, nil
}

func (s *Service) Send(ctx context.Context, adapterID string, req core.SendRequest) (receipt core.DeliveryReceipt, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id":     adapterID,
		"session_id":     req.Session.ID,
		"message_length": len([]rune(req.Text)),
	}
	defer func() {
		if receipt.MessageID != "" {
			fields["message_id"] = receipt.MessageID
			fields["parts"] = len(receipt.Parts)
		}
		s.observeOperation(ctx, startedAt, "send_message", err, fields)
	}()

	adapter, err := s.resolveAdapter(adapterID)
	if err != nil {
		return core.DeliveryReceipt{}, err
	}
	receipt, err = adapter.Send(ctx, req)
	if err != nil {
		err = core.MapError(err)
		return core.DeliveryReceipt{}, err
	}
	return receipt, nil
}

func (s *Service) Revoke(ctx context.Context, adapterID string, creds core.ClientCredentials, session core.Session) (revoked core.Session, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"adapter_id": adapterID,
		"session_id": session.ID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "revoke_session", err, fields)
	}()

	adapter, err := s.resolveAdapter(adapterID)
	if err != nil {
		return core.Session{}, err
	}
	revoked, err = adapter.Revoke(ctx, creds, session)
	if err != nil {
		err = core.MapError(err)
		return core.Session{}, err
	}

	if s.sessions != nil && strings.TrimSpace(revoked.ID) != "" {
		if markErr := s.sessions.MarkRevoked(ctx, revoked.ID, "revoked via adapter"); markErr != nil {
			s.logWarn(ctx, "session revocation persistence failed", map[string]any{
				"adapter_id": adapterID,
				"session_id": revoked.ID,
				"error":      markErr.Error(),
			})
		}
	}
	return revoked, nil
}

func (s *Service) resolveAdapter(adapterID string) (core.Adapter, error) {
	if s == nil || s.registry == nil {
		return nil, core.MapError(core.NewBadInputError("socialrelay: adapter registry unavailable"))
	}
	adapter, ok := s.registry.Get(adapterID)
	if !ok {
		return nil, core.NewAdapterNotFoundError(adapterID).
			WithMetadata(map[string]any{"adapter_id": strings.TrimSpace(adapterID)})
	}
	return adapter, nil
}

func (s *Service) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if s == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}

	contextFields := core.RedactSensitiveMap(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = time.Since(startedAt).Milliseconds()
	if err != nil {
		contextFields["error"] = err.Error()
		contextFields["error_code"] = core.TextCode(err)
		s.logWithLevel(ctx, "error", operation+" failed", contextFields)
		return
	}
	s.logWithLevel(ctx, "info", operation+" succeeded", contextFields)
}

func (s *Service) logWarn(ctx context.Context, message string, fields map[string]any) {
	s.logWithLevel(ctx, "warn", message, core.RedactSensitiveMap(fields))
}

func (s *Service) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logger := s.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}
