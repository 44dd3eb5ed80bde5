package npc

import (
	"github.com/sunvale/sevendays/pkg/clue"
	"github.com/sunvale/sevendays/pkg/lang"
)

// DefaultCast is the built-in seven-day cast. data/npcs.yaml overrides
// it when present; the built-in copy keeps the game playable (and the
// tests hermetic) without a data directory.
func DefaultCast() []NPC {
	return []NPC{
		{
			ID:   "village_head",
			Day:  1,
			Name: lang.Text{EN: "Village Head Shu", ZH: "村长老舒"},
			Persona: lang.Text{
				EN: "The weathered head of Sunvale village. Courteous, a little formal, fond of proverbs. He remembers everyone who has ever passed through.",
				ZH: "阳谷村饱经风霜的村长。客气而略显拘谨，爱引用谚语，记得每一个路过村子的人。",
			},
			TriggerPhrases: map[lang.Lang][]string{
				lang.English: {"speaking of food", "have you eaten", "tell me about your meals"},
				lang.Chinese: {"说到吃的", "你吃饭了吗", "说说你的三餐"},
			},
			Clues: map[clue.Tier]lang.Text{
				clue.TierVague1: {
					EN: "Your grandfather stayed in Sunvale for exactly one week, many autumns ago.",
					ZH: "许多年前的一个秋天，你祖父在阳谷村整整住了七天。",
				},
				clue.TierVague2: {
					EN: "He arrived with empty hands but left something behind at the old bakery.",
					ZH: "他两手空空地来，却在老面包房留下了一样东西。",
				},
				clue.TierTrue: {
					EN: "He left a sealed tin with Baker Mirren. Go to the bakery at dawn — she still keeps it.",
					ZH: "他把一只封好的铁盒托付给了面包师米伦。清晨去面包房吧，她还留着它。",
				},
			},
		},
		{
			ID:   "baker",
			Day:  2,
			Name: lang.Text{EN: "Baker Mirren", ZH: "面包师米伦"},
			Persona: lang.Text{
				EN: "Runs the village bakery her mother built. Brisk, warm, always dusted with flour. Talks while kneading.",
				ZH: "经营着母亲传下来的面包房。爽利热心，总沾着面粉，一边揉面一边说话。",
			},
			TriggerPhrases: map[lang.Lang][]string{
				lang.English: {"fresh out of the oven", "what have you been eating", "bread goes best"},
				lang.Chinese: {"刚出炉的", "你最近都吃些什么", "面包要配"},
			},
			Clues: map[clue.Tier]lang.Text{
				clue.TierVague1: {
					EN: "The tin smells faintly of salt and pine tar, like the harbor.",
					ZH: "铁盒隐隐有股咸味和松脂味，像是码头的气息。",
				},
				clue.TierVague2: {
					EN: "Inside is a knot of fishing line tied in a way no farmer ties.",
					ZH: "盒子里有一段渔线，打的结不是庄稼人的手法。",
				},
				clue.TierTrue: {
					EN: "The knot is Lin's. Your grandfather fished with Fisherwoman Lin every morning of that week. Find her at the pier.",
					ZH: "那个结是林渔娘的手艺。那一周你祖父每天清晨都和她一起出海。去栈桥找她吧。",
				},
			},
		},
		{
			ID:   "fisherwoman",
			Day:  3,
			Name: lang.Text{EN: "Fisherwoman Lin", ZH: "林渔娘"},
			Persona: lang.Text{
				EN: "Mends nets on the pier at all hours. Laconic, dry-humored, reads the weather better than the almanac.",
				ZH: "整日在栈桥上补网。寡言，幽默冷淡，看天比黄历还准。",
			},
			TriggerPhrases: map[lang.Lang][]string{
				lang.English: {"catch of the day", "a fisher eats", "what fills your bowl"},
				lang.Chinese: {"今天的渔获", "打渔人吃饭", "你碗里装的什么"},
			},
			Clues: map[clue.Tier]lang.Text{
				clue.TierVague1: {
					EN: "He wasn't fishing for fish. He kept diving near the cold spring.",
					ZH: "他出海不是为了鱼。他总在冷泉附近潜水。",
				},
				clue.TierVague2: {
					EN: "Whatever he pulled up, he carried straight to the herb hut, dripping.",
					ZH: "不管捞上来什么，他都湿淋淋地直接抱去了药庐。",
				},
				clue.TierTrue: {
					EN: "He brought river stones to Herbalist Wen to grind for a remedy. She knows what ailed him. The herb hut is up the hill.",
					ZH: "他把河底的石头带给药师温娘子磨药。他得了什么病，她最清楚。药庐就在山坡上。",
				},
			},
		},
		{
			ID:   "herbalist",
			Day:  4,
			Name: lang.Text{EN: "Herbalist Wen", ZH: "药师温娘子"},
			Persona: lang.Text{
				EN: "Keeps the herb hut above the village. Gentle, precise, asks about sleep and appetite before anything else.",
				ZH: "守着村子上方的药庐。温和细致，开口先问睡眠和胃口。",
			},
			TriggerPhrases: map[lang.Lang][]string{
				lang.English: {"medicine is half the meal", "how is your appetite", "food is the first remedy"},
				lang.Chinese: {"药补不如食补", "你胃口如何", "吃饭就是头一味药"},
			},
			Clues: map[clue.Tier]lang.Text{
				clue.TierVague1: {
					EN: "His hands shook, but not from illness. He was afraid of forgetting something.",
					ZH: "他的手在抖，但不是因为病。他是怕忘记什么。",
				},
				clue.TierVague2: {
					EN: "He asked for ink more often than medicine. He was writing something every night.",
					ZH: "比起药，他更常来讨墨。他每晚都在写着什么。",
				},
				clue.TierTrue: {
					EN: "He had Blacksmith Gao forge a small lockbox for what he wrote. Gao's forge still burns past midnight.",
					ZH: "他请铁匠高师傅为手稿打了一只小锁盒。高师傅的炉火至今还烧到半夜。",
				},
			},
		},
		{
			ID:   "blacksmith",
			Day:  5,
			Name: lang.Text{EN: "Blacksmith Gao", ZH: "铁匠高师傅"},
			Persona: lang.Text{
				EN: "Broad, soot-streaked, speaks in short sentences over the ring of the anvil. Feeds stray cats.",
				ZH: "身材魁梧，满面烟灰，说话短促，伴着砧声。喜欢喂流浪猫。",
			},
			TriggerPhrases: map[lang.Lang][]string{
				lang.English: {"iron work needs a full stomach", "eaten anything good", "can't swing a hammer hungry"},
				lang.Chinese: {"打铁要吃饱", "吃了什么好的", "饿着肚子抡不动锤"},
			},
			Clues: map[clue.Tier]lang.Text{
				clue.TierVague1: {
					EN: "The lockbox had two keys. He kept only one.",
					ZH: "锁盒配了两把钥匙。他只留了一把。",
				},
				clue.TierVague2: {
					EN: "The other key he traded for a week of lodging and late suppers.",
					ZH: "另一把钥匙，他拿去换了七天的住宿和宵夜。",
				},
				clue.TierTrue: {
					EN: "Innkeeper Bo took the second key. Your grandfather ate his last Sunvale supper at the inn. Bo never forgot him.",
					ZH: "第二把钥匙在客栈老板老薄手里。你祖父在阳谷村的最后一顿晚饭就是在客栈吃的。老薄一直记得他。",
				},
			},
		},
		{
			ID:   "innkeeper",
			Day:  6,
			Name: lang.Text{EN: "Innkeeper Bo", ZH: "客栈老板老薄"},
			Persona: lang.Text{
				EN: "Runs the Lantern Rest inn. Chatty, sentimental, keeps a ledger of every guest's favorite dish.",
				ZH: "灯歇客栈的老板。健谈念旧，记着每位客人最爱的一道菜。",
			},
			TriggerPhrases: map[lang.Lang][]string{
				lang.English: {"house specialty", "a guest's favorite dish", "what did you eat today"},
				lang.Chinese: {"本店招牌", "客人最爱的菜", "你今天吃了什么"},
			},
			Clues: map[clue.Tier]lang.Text{
				clue.TierVague1: {
					EN: "On his last night he paid for two suppers, but ate alone.",
					ZH: "最后一晚他付了两份晚饭的钱，却一个人吃。",
				},
				clue.TierVague2: {
					EN: "The second supper went up the cliff path, wrapped in oilcloth.",
					ZH: "第二份晚饭用油布包着，被送上了崖边小路。",
				},
				clue.TierTrue: {
					EN: "He carried it to Keeper Yan at the lighthouse, and left the lockbox there. Climb the cliff path on the seventh morning.",
					ZH: "他把饭送给了灯塔守严伯，锁盒也留在了那里。第七天清晨，去爬那条崖边小路吧。",
				},
			},
		},
		{
			ID:   "lighthouse_keeper",
			Day:  7,
			Name: lang.Text{EN: "Keeper Yan", ZH: "灯塔守严伯"},
			Persona: lang.Text{
				EN: "Tends the lighthouse alone. Slow to speak, long memory, watches the sea while he listens.",
				ZH: "独自看守灯塔。开口慢，记性长，听人说话时眼睛望着海。",
			},
			TriggerPhrases: map[lang.Lang][]string{
				lang.English: {"a keeper's rations", "meals up here are simple", "tell me what you've eaten"},
				lang.Chinese: {"守塔人的口粮", "山上吃得简单", "说说你吃了什么"},
			},
			Clues: map[clue.Tier]lang.Text{
				clue.TierVague1: {
					EN: "The lockbox sits under the lamp, where the light never reaches.",
					ZH: "锁盒就放在灯座下面，灯光照不到的地方。",
				},
				clue.TierVague2: {
					EN: "Inside is a week of letters — one for every day, one for every meal he shared.",
					ZH: "盒子里是七天的信——每一天一封，每一顿同桌的饭一页。",
				},
				clue.TierTrue: {
					EN: "The letters are addressed to you. He wrote that whoever retraced his seven days of meals would be ready to read them. You are.",
					ZH: "信是写给你的。他写道：谁能把他这七天的三餐重新走一遍，谁就读得懂这些信。现在你可以了。",
				},
			},
		},
	}
}

// DefaultCatalog builds the built-in cast. The cast is static and
// validated by tests, so construction cannot fail at runtime.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultCast())
	if err != nil {
		panic(err)
	}
	return c
}
