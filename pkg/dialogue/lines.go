package dialogue

import "github.com/sunvale/sevendays/pkg/lang"

// Canned machine lines. These are scripted connective tissue between
// backend turns, not AI output, so they live with the machine and stay
// deterministic per language.
var (
	lineShortGreeting = lang.Text{
		EN: "Good to see you again. Shall we note down one of your meals?",
		ZH: "又见面了。要不要记一记你今天吃的饭？",
	}
	lineComeBackTomorrow = lang.Text{
		EN: "We've talked about all of today's meals. Come back tomorrow.",
		ZH: "今天的三餐都说过了，明天再来吧。",
	}
	lineKeepChatting = lang.Text{
		EN: "Of course, no hurry. What else is on your mind?",
		ZH: "当然，不着急。你还想聊点什么？",
	}
	lineMealPrompt = lang.Text{
		EN: "Which meal would you like to tell me about?",
		ZH: "你想和我说说哪一顿饭？",
	}
	lineGuidance = lang.Text{
		EN: "Even a small detail helps — what do you remember most about that meal?",
		ZH: "哪怕一点小细节也好——这顿饭你印象最深的是什么？",
	}
	lineInterviewDone = lang.Text{
		EN: "Thank you, I've noted all of that down.",
		ZH: "谢谢你，我都记下来了。",
	}
	lineSubmitRetry = lang.Text{
		EN: "Hold on, let me write that down properly...",
		ZH: "稍等，我再好好记一遍……",
	}
	lineSubmitFailed = lang.Text{
		EN: "I can't seem to keep notes right now. Let's try again later.",
		ZH: "我现在好像记不下来，稍后再试吧。",
	}
)
