package usecase

// AuthCacheTTL is exported for testing
const AuthCacheTTL = authCacheTTL
