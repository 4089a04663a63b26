package config

// NewTestStripe builds Stripe settings without parsing flags
func NewTestStripe(secretKey, webhookSecret, individual, professional, enterprise string) *Stripe {
	return &Stripe{
		secretKey:         secretKey,
		webhookSecret:     webhookSecret,
		individualPrice:   individual,
		professionalPrice: professional,
		enterprisePrice:   enterprise,
	}
}

func NewTestSupabase(url, anonKey, jwtSecret, noAuthUserID string) *Supabase {
	return &Supabase{url: url, anonKey: anonKey, jwtSecret: jwtSecret, noAuthUserID: noAuthUserID}
}

func NewTestRepository(backend, projectID, postgresDSN string) *Repository {
	return &Repository{backend: backend, projectID: projectID, postgresDSN: postgresDSN}
}

func NewTestLogger(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
