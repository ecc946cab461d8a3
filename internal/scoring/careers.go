package scoring

import "dcasassess/internal/model"

var careersByType = map[model.DCASType][]model.CareerRecommendation{
	model.TypeDriver: {
		{Title: "Business Development Manager", Description: "Lead growth strategies and drive business expansion", Skills: []string{"Leadership", "Strategy", "Negotiation"}},
		{Title: "Entrepreneur / Startup Founder", Description: "Build and scale your own business ventures", Skills: []string{"Vision", "Risk-taking", "Decision-making"}},
		{Title: "Operations Manager", Description: "Oversee daily operations and optimize efficiency", Skills: []string{"Efficiency", "Management", "Problem-solving"}},
		{Title: "Sales Manager (B2B)", Description: "Lead sales teams and close high-value deals", Skills: []string{"Sales", "Team Leadership", "Persuasion"}},
		{Title: "Project Leader / Program Manager", Description: "Drive projects to completion with decisive leadership", Skills: []string{"Planning", "Execution", "Accountability"}},
		{Title: "Strategy Consultant", Description: "Advise organizations on strategic decisions", Skills: []string{"Analysis", "Advisory", "Communication"}},
		{Title: "Supply Chain Manager", Description: "Optimize logistics and manage complex supply networks", Skills: []string{"Logistics", "Optimization", "Coordination"}},
	},
	model.TypeConnector: {
		{Title: "Marketing Manager", Description: "Create compelling campaigns and build brand awareness", Skills: []string{"Creativity", "Communication", "Branding"}},
		{Title: "HR and Training Specialist", Description: "Develop talent and create engaging training programs", Skills: []string{"Empathy", "Training", "Development"}},
		{Title: "Digital Marketing Strategist", Description: "Drive online engagement and social media presence", Skills: []string{"Social Media", "Content", "Analytics"}},
		{Title: "Brand Ambassador / PR Specialist", Description: "Represent brands and manage public relations", Skills: []string{"Public Speaking", "Networking", "Branding"}},
		{Title: "Customer Engagement Manager", Description: "Build relationships and enhance customer experiences", Skills: []string{"Relationship Building", "CX", "Communication"}},
		{Title: "Inside Sales / Relationship Manager", Description: "Nurture client relationships and drive sales", Skills: []string{"Rapport", "Trust", "Follow-up"}},
		{Title: "Event Manager", Description: "Organize and execute memorable events", Skills: []string{"Organization", "Creativity", "Coordination"}},
	},
	model.TypeAnchor: {
		{Title: "Customer Success Specialist", Description: "Ensure customer satisfaction and long-term relationships", Skills: []string{"Patience", "Empathy", "Support"}},
		{Title: "Operations Coordinator", Description: "Maintain smooth workflows and support team operations", Skills: []string{"Organization", "Reliability", "Teamwork"}},
		{Title: "Teacher / Mentor / Coach", Description: "Guide and develop others with patience and care", Skills: []string{"Mentoring", "Patience", "Communication"}},
		{Title: "Administrative Manager", Description: "Manage administrative functions with consistency", Skills: []string{"Organization", "Consistency", "Detail"}},
		{Title: "Healthcare Support Roles", Description: "Provide compassionate care and patient support", Skills: []string{"Compassion", "Care", "Stability"}},
		{Title: "HR Support / Recruitment Coordinator", Description: "Support hiring processes and employee relations", Skills: []string{"People Skills", "Process", "Support"}},
		{Title: "Community Manager", Description: "Build and nurture community relationships", Skills: []string{"Community", "Trust", "Engagement"}},
	},
	model.TypeStrategist: {
		{Title: "Data Analyst / Business Analyst", Description: "Analyze data to drive business decisions", Skills: []string{"Analytics", "Critical Thinking", "Excel"}},
		{Title: "Financial Analyst / Accountant", Description: "Manage financial data with precision and accuracy", Skills: []string{"Finance", "Precision", "Reporting"}},
		{Title: "Quality Assurance & Compliance", Description: "Ensure standards and regulatory compliance", Skills: []string{"Quality", "Standards", "Testing"}},
		{Title: "Research & Analytics", Description: "Conduct thorough research and detailed analysis", Skills: []string{"Research", "Data", "Methodology"}},
		{Title: "IT System Design / Cybersecurity", Description: "Design secure systems with meticulous attention", Skills: []string{"Security", "Systems", "Architecture"}},
		{Title: "Engineering & Technical Design", Description: "Create detailed technical solutions and designs", Skills: []string{"Engineering", "Design", "Precision"}},
		{Title: "Legal Analyst", Description: "Analyze legal documents and ensure compliance", Skills: []string{"Legal", "Analysis", "Compliance"}},
	},
}

// Careers returns every recommendation for a type
func Careers(t model.DCASType) []model.CareerRecommendation {
	return append([]model.CareerRecommendation(nil), careersByType[t]...)
}

// Recommendations picks two careers for the primary type and one for the secondary
func Recommendations(primary, secondary model.DCASType) []model.CareerRecommendation {
	if !secondary.Valid() {
		secondary = primary
	}
	recs := make([]model.CareerRecommendation, 0, 3)
	for _, c := range first(careersByType[primary], 2) {
		c.Source = "primary"
		recs = append(recs, c)
	}
	for _, c := range first(careersByType[secondary], 1) {
		c.Source = "secondary"
		recs = append(recs, c)
	}
	return recs
}

func first(list []model.CareerRecommendation, n int) []model.CareerRecommendation {
	if len(list) < n {
		return list
	}
	return list[:n]
}
