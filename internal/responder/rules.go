package responder

import (
	"fmt"
	"strings"

	"github.com/joeyaochen/portfolio/internal/profile"
)

// Rule pairs a keyword set with a response generator. Keywords match as
// substrings of the lowercased query; Words match only as whole tokens,
// for short keywords that would otherwise fire inside longer words.
type Rule struct {
	Name     string
	Keywords []string
	Words    []string
	Respond  func(p *profile.Profile) string
}

func (r Rule) matches(lower string, tokens map[string]struct{}) bool {
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, w := range r.Words {
		if _, ok := tokens[w]; ok {
			return true
		}
	}
	return false
}

// Rules returns the rule table in priority order. The first matching rule
// answers the query.
func Rules() []Rule {
	return []Rule{
		{Name: "greeting", Keywords: []string{"hello", "你好", "嗨"}, Words: []string{"hi"}, Respond: greeting},
		{Name: "projects", Keywords: []string{"project", "work", "项目"}, Respond: projects},
		{Name: "skills", Keywords: []string{"skill", "technology", "tech", "能力", "技能"}, Respond: skills},
		{Name: "education", Keywords: []string{"education", "study", "school", "university", "学历", "教育"}, Respond: education},
		{Name: "experience", Keywords: []string{"experience", "job", "internship", "career", "经验", "工作"}, Respond: experience},
		{Name: "contact", Keywords: []string{"contact", "email", "reach", "hire", "联系"}, Respond: contact},
		{Name: "about", Keywords: []string{"about", "who is", "background", "介绍"}, Respond: about},
		{Name: "research", Keywords: []string{"research", "interest", "focus", "研究"}, Respond: research},
		{Name: "achievements", Keywords: []string{"achievement", "award", "recognition", "成就"}, Respond: achievements},
		{Name: "future-plans", Keywords: []string{"future", "plan", "goal", "next", "未来"}, Respond: futurePlans},
		{Name: "language-meta", Keywords: []string{"中文", "chinese", "语言"}, Respond: languageMeta},
		{Name: "help", Keywords: []string{"help", "what can you", "帮助"}, Respond: help},
	}
}

func greeting(p *profile.Profile) string {
	return fmt.Sprintf("Hello! 👋 I'm %s's AI assistant. I'm here to help you learn about %s's background, projects, and expertise. What would you like to know?",
		firstName(p), firstName(p))
}

func projects(p *profile.Profile) string {
	entries := make([]string, len(p.Projects))
	for i, pr := range p.Projects {
		entries[i] = fmt.Sprintf("**%s**: %s\n*Tech Stack*: %s\n*Impact*: %s",
			pr.Name, pr.Description, strings.Join(pr.Tech, ", "), pr.Impact)
	}
	return fmt.Sprintf("%s has worked on several impactful projects in data science and public health:\n\n%s\n\n💡 *Want to see more?* Check out the Projects section for detailed case studies and live demos!",
		firstName(p), strings.Join(entries, "\n\n"))
}

func skills(p *profile.Profile) string {
	return fmt.Sprintf("%s's technical expertise spans multiple domains:\n\n"+
		"🔧 **Programming Languages**: %s\n"+
		"📊 **Tools & Platforms**: %s\n"+
		"🧠 **Specializations**: %s\n\n"+
		"*Proficiency Level*: Advanced in Python, R, and Machine Learning; Intermediate in SQL and GIS\n\n"+
		"📄 Check his resume for detailed skill assessments and certifications!",
		firstName(p),
		strings.Join(p.Skills.Programming, ", "),
		strings.Join(p.Skills.Tools, ", "),
		strings.Join(p.Skills.Specializations, ", "))
}

func education(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎓 **Education Background**:\n\n**Current**: %s\n• GPA: %s\n• Focus: Public Health Analytics & AI Ethics\n",
		p.Education.Current, p.Education.GPA)
	if p.Education.Previous != "" {
		fmt.Fprintf(&b, "\n**Previous**: %s\n• Graduated: %s\n", p.Education.Previous, p.Education.Honors)
	}
	fmt.Fprintf(&b, "\n%s's academic journey combines rigorous statistical training with practical applications in healthcare and social impact.", firstName(p))
	return b.String()
}

func experience(p *profile.Profile) string {
	cur := p.CurrentRole()
	var b strings.Builder
	fmt.Fprintf(&b, "💼 **Professional Experience**:\n\n**Current Role**: %s at %s\n📅 %s | 📍 %s\n\n🏆 **Key Achievements**:\n• %s\n",
		cur.Role, cur.Company, cur.Period, cur.Location, strings.Join(head(cur.Highlights, 3), "\n• "))
	if prev, ok := p.PreviousRole(); ok {
		fmt.Fprintf(&b, "\n**Previous**: %s at %s\n", prev.Role, prev.Company)
		for _, h := range head(prev.Highlights, 2) {
			fmt.Fprintf(&b, "• %s\n", h)
		}
	}
	fmt.Fprintf(&b, "\n🚀 %s's career trajectory shows consistent growth in data science and public health impact!", firstName(p))
	return b.String()
}

func contact(p *profile.Profile) string {
	return fmt.Sprintf("📬 **Get in Touch with %s**:\n\n"+
		"📧 **Email**: %s\n"+
		"📍 **Location**: %s\n\n"+
		"🌐 **Social Media**: You can find %s's professional profiles in the About section\n\n"+
		"💼 **For Opportunities**: %s is open to discussing research collaborations, consulting projects, and full-time opportunities in data science and public health.\n\n"+
		"⚡ *Quick tip*: Mention what caught your interest about his work when reaching out!",
		firstName(p), p.Personal.Email, p.Personal.Location, firstName(p), firstName(p))
}

func about(p *profile.Profile) string {
	return fmt.Sprintf("👨‍💻 **About %s**:\n\n"+
		"%s is a passionate %s specializing in %s. Currently based in %s, he's pursuing %s.\n\n"+
		"🎯 **Mission**: %s combines technical expertise with social impact, focusing on making healthcare more equitable through data science and ethical AI.\n\n"+
		"🌟 **What makes %s unique**:\n"+
		"• Strong academic foundation (%s GPA, %s)\n"+
		"• Real-world impact (published research, 27%% improvement in health predictions)\n"+
		"• Ethical focus (AI fairness, algorithmic bias research)\n\n"+
		"💡 *Fun fact*: %s enjoys photography and exploring the intersection of technology and humanity!",
		p.Personal.Name,
		p.Personal.Name, p.Personal.Title, p.Personal.Focus, p.Personal.Location, p.Education.Current,
		firstName(p), firstName(p),
		strings.TrimSuffix(p.Education.GPA, "/4.0"), p.Education.Honors,
		firstName(p))
}

func research(p *profile.Profile) string {
	return fmt.Sprintf("🔬 **%s's Research Interests**:\n\n"+
		"• **AI Ethics**: Algorithmic fairness in healthcare systems\n"+
		"• **Public Health Analytics**: Predictive modeling for health outcomes\n"+
		"• **Health Equity**: Using data to address healthcare disparities\n"+
		"• **Geospatial Analysis**: Urban mobility and accessibility patterns\n\n"+
		"📚 **Recent Work**: %s has published findings in peer-reviewed journals and presented at conferences on AI ethics and public health applications.\n\n"+
		"🎯 His research aims to bridge the gap between cutting-edge technology and social good.",
		firstName(p), firstName(p))
}

func achievements(p *profile.Profile) string {
	return fmt.Sprintf("🏆 **%s's Achievements**:\n\n"+
		"🎓 **Academic**: Outstanding Graduate Research Award (2024)\n"+
		"📄 **Publications**: 2 peer-reviewed journals with 150+ citations\n"+
		"🏅 **Recognition**: Best Paper Award - AI Ethics Conference (2023)\n"+
		"📊 **Impact**: Improved health outcome predictions by 27%%\n"+
		"👥 **Leadership**: Mentored 40+ students as Teaching Assistant\n\n"+
		"%s's work consistently demonstrates excellence in both research and practical applications!",
		firstName(p), firstName(p))
}

func futurePlans(p *profile.Profile) string {
	return fmt.Sprintf("🚀 **%s's Future Vision**:\n\n"+
		"%s is passionate about continuing his work at the intersection of data science and social impact. He's particularly interested in:\n\n"+
		"• **Career**: Roles in health tech, policy research, or academic positions\n"+
		"• **Research**: Expanding work on AI ethics and health equity\n"+
		"• **Impact**: Building systems that make healthcare more accessible and fair\n\n"+
		"💼 **Open to**: Research collaborations, consulting opportunities, and full-time positions that align with his mission of using data for social good.\n\n"+
		"📧 Reach out at %s to discuss potential opportunities!",
		firstName(p), firstName(p), p.Personal.Email)
}

func languageMeta(p *profile.Profile) string {
	return fmt.Sprintf("🌏 **Language Support**: While I primarily respond in English, %s is multilingual and comfortable working in international environments. His academic work has given him experience collaborating with diverse, global teams.\n\n"+
		"📧 Feel free to contact %s in either English or Chinese at %s",
		firstName(p), firstName(p), p.Personal.Email)
}

func help(p *profile.Profile) string {
	name := firstName(p)
	return fmt.Sprintf("🤖 **How I can help you learn about %s**:\n\n"+
		"• 📋 **Projects**: Ask about his data science and public health projects\n"+
		"• 💼 **Experience**: Learn about his research and internship experience\n"+
		"• 🎓 **Education**: Discover his academic background and achievements\n"+
		"• 🛠️ **Skills**: Explore his technical expertise and specializations\n"+
		"• 📧 **Contact**: Get his contact information and social profiles\n"+
		"• 🔬 **Research**: Understand his research interests and publications\n\n"+
		"💡 **Try asking**: \"Tell me about %s's projects\" or \"What are %s's research interests?\"",
		name, name, name)
}

func firstName(p *profile.Profile) string {
	name, _, _ := strings.Cut(p.Personal.Name, " ")
	return name
}

func head(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
