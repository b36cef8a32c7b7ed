package services

// ServiceContainer bundles all services for handler wiring.
type ServiceContainer struct {
	Auth       AuthService
	Profile    ProfileService
	Review     ReviewService
	Moderation ModerationService
}
