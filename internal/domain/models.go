package domain

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&User{},
		&Project{},
		&Tower{},
		&Unit{},
		&Lead{},
		&LeadActivity{},
		&Negotiation{},
		&Booking{},
		&Payment{},
		&ChannelPartner{},
		&ChannelPartnerLead{},
		&Communication{},
	}
}
