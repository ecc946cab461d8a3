package cli

// sampleQuestions is the default 30-question bank. Options are listed in
// D, C, A, S order and labelled A to D.
var sampleQuestions = []struct {
	text    string
	options [4]string
}{
	{"When faced with a challenge at work or school, what do you do first?", [4]string{"Take charge and make a quick decision", "Discuss it with your team for ideas", "Think carefully before reacting", "Analyze the pros and cons logically"}},
	{"In a team project, what role do you naturally take?", [4]string{"The leader who delegates tasks", "The motivator who keeps energy high", "The reliable one who completes tasks", "The planner who organizes everything"}},
	{"How do you handle conflict in a group?", [4]string{"Address it directly and move on", "Try to find a win-win through conversation", "Avoid it and hope it resolves on its own", "Look at the facts to find the best solution"}},
	{"What motivates you the most?", [4]string{"Winning and achieving goals", "Being liked and appreciated by others", "Stability and a peaceful environment", "Accuracy and doing things the right way"}},
	{"How do you react to sudden changes?", [4]string{"Adapt quickly and take control", "Get excited about new possibilities", "Feel uneasy but go along with it", "Evaluate whether the change makes sense"}},
	{"On a weekend, you'd prefer to:", [4]string{"Work on a personal goal or project", "Hang out with friends or attend events", "Relax at home or with close family", "Read, research, or organize your space"}},
	{"Which word best describes you?", [4]string{"Bold", "Friendly", "Calm", "Precise"}},
	{"When you communicate, you tend to:", [4]string{"Be direct and to the point", "Be enthusiastic and persuasive", "Listen more than you speak", "Use data and logical explanations"}},
	{"When making a decision, you usually:", [4]string{"Decide fast and with confidence", "Ask others for their opinions", "Take your time and consider carefully", "Research thoroughly before choosing"}},
	{"What kind of feedback do you prefer?", [4]string{"Straight and honest - even if it's tough", "Positive and encouraging", "Gentle and private", "Specific and fact-based"}},
	{"In a meeting, you usually:", [4]string{"Lead the discussion", "Speak up and share ideas", "Agree with the group and stay supportive", "Take detailed notes and analyze"}},
	{"When under stress, you tend to:", [4]string{"Become more demanding and controlling", "Talk more and seek attention", "Withdraw and become passive", "Over-analyze and become critical"}},
	{"What type of work environment do you prefer?", [4]string{"Fast-paced and results-oriented", "Fun, social, and collaborative", "Calm, structured, and supportive", "Organized, quiet, and focused"}},
	{"What's your biggest fear?", [4]string{"Losing control or being taken advantage of", "Being ignored or rejected", "Sudden change or instability", "Being wrong or making mistakes"}},
	{"You feel most productive when:", [4]string{"You're in charge and setting the pace", "You're working with enthusiastic people", "Things are predictable and smooth", "You have a detailed plan to follow"}},
	{"When a friend is upset, you:", [4]string{"Give them a solution right away", "Cheer them up with humor or support", "Sit with them and listen quietly", "Help them think through the problem"}},
	{"What do people admire most about you?", [4]string{"Your determination and drive", "Your energy and charisma", "Your patience and loyalty", "Your intelligence and accuracy"}},
	{"When working on a task, you:", [4]string{"Focus on the end result", "Brainstorm creative ideas", "Follow a step-by-step approach", "Check all the details twice"}},
	{"If someone disagrees with you, you:", [4]string{"Stand firm and defend your point", "Try to persuade them enthusiastically", "Let it go to keep the peace", "Ask for data to support their argument"}},
	{"Which career sounds most appealing?", [4]string{"CEO or entrepreneur", "Public relations or event manager", "Counselor or teacher", "Data analyst or researcher"}},
	{"When it comes to rules, you usually:", [4]string{"Prefer to make your own rules", "Follow them if they're not boring", "Respect and follow them consistently", "Ensure everyone follows them"}},
	{"When learning something new, you prefer:", [4]string{"Jumping right in and figuring it out", "Learning through group discussions", "Going at your own pace with guidance", "Reading instructions and studying first"}},
	{"How would your friends describe you?", [4]string{"Ambitious and confident", "Fun-loving and talkative", "Dependable and kind", "Thoughtful and detail-oriented"}},
	{"How do you feel about public speaking?", [4]string{"I enjoy it - I like to lead", "I love it - I enjoy the spotlight", "I'd rather not - I'm more of a listener", "I can do it if I've prepared well"}},
	{"What kind of movie would you choose?", [4]string{"Action or thriller - fast-paced and bold", "Comedy or musical - fun and social", "Drama or family - emotional and meaningful", "Documentary or mystery - smart and logical"}},
	{"When managing your time, you:", [4]string{"Prioritize tasks by importance and act fast", "Tend to multitask and sometimes run late", "Prefer a steady routine with no surprises", "Make a detailed to-do list and follow it"}},
	{"If you were an animal, you'd be:", [4]string{"A lion - strong and commanding", "A dolphin - social and playful", "A golden retriever - loyal and gentle", "An owl - wise and observant"}},
	{"When setting goals, you:", [4]string{"Set ambitious, high-reaching goals", "Set goals that involve collaboration", "Set realistic, manageable goals", "Set precise, measurable goals"}},
	{"Your ideal leader is someone who:", [4]string{"Is decisive and action-oriented", "Is inspiring and charismatic", "Is supportive and empathetic", "Is knowledgeable and competent"}},
	{"What would you improve about yourself?", [4]string{"Being more patient with others", "Being more organized and focused", "Being more assertive and speaking up", "Being more flexible and open to change"}},
}
