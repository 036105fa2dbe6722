package profile

const DemoUserID = "12345"

// Demo returns a fresh copy of the demo card shown on the landing page.
func Demo() *Profile {
	return &Profile{
		UserID:            DemoUserID,
		FirstName:         "Alex",
		LastName:          "Johnson",
		Headline:          "Innovator | Leader | Tech Enthusiast",
		Profession:        "Product Manager",
		Company:           "Innovatech Ltd.",
		Location:          "New York, USA",
		ProfilePictureURL: "https://placehold.co/150x150.png",
		ContactEmail:      "alex.johnson@example.com",
		ContactPhone:      "+1 123 456 7890",
		Skills: []Skill{
			{ID: "s1", Name: "Product Strategy", IsVisible: true},
			{ID: "s2", Name: "Agile Methodologies", IsVisible: true},
			{ID: "s3", Name: "UX Design", IsVisible: false},
			{ID: "s4", Name: "Market Analysis", IsVisible: true},
		},
		Education: []EducationEntry{
			{ID: "e1", Institution: "Tech University", Degree: "MBA, Business Administration", Period: "2016 - 2018", IsVisible: true},
			{ID: "e2", Institution: "State College", Degree: "B.Sc. Computer Science", Period: "2012 - 2016", IsVisible: true},
		},
		Links: []SocialLink{
			{ID: "l1", Platform: "LinkedIn", URL: "https://linkedin.com/in/alexjohnson", Label: "LinkedIn", IsVisible: true},
			{ID: "l2", Platform: "Twitter", URL: "https://twitter.com/alexjohnson", Label: "Twitter", IsVisible: true},
			{ID: "l3", Platform: "Personal Website", URL: "https://alexjohnson.dev", Label: "Website", IsVisible: false},
		},
		ProfessionalDetails: []ProfessionalDetail{},
		ShowHeadline:        true,
		ShowProfession:      true,
		ShowCompany:         true,
		ShowLocation:        true,
		ShowContactEmail:    true,
		ShowContactPhone:    true,
		Theme:               "default",
	}
}
