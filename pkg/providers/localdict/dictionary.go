package localdict

// 内置英语->阿拉伯语词典。短语表优先于单词表匹配。

var builtinPhrases = map[string]string{
	"good morning":        "صباح الخير",
	"good evening":        "مساء الخير",
	"good night":          "تصبح على خير",
	"thank you":           "شكرا لك",
	"thank you very much": "شكرا جزيلا",
	"you are welcome":     "على الرحب والسعة",
	"how are you":         "كيف حالك",
	"i am fine":           "أنا بخير",
	"what is your name":   "ما اسمك",
	"my name is":          "اسمي",
	"nice to meet you":    "تشرفت بمقابلتك",
	"see you later":       "أراك لاحقا",
	"of course":           "بالطبع",
	"excuse me":           "عفوا",
	"i am sorry":          "أنا آسف",
	"for example":         "على سبيل المثال",
	"in addition":         "بالإضافة إلى ذلك",
	"on the other hand":   "من ناحية أخرى",
	"as a result":         "نتيجة لذلك",
	"in conclusion":       "في الختام",
	"first of all":        "أولا وقبل كل شيء",
	"at the same time":    "في نفس الوقت",
	"in other words":      "بعبارة أخرى",
	"more than":           "أكثر من",
	"less than":           "أقل من",
	"equal to":            "يساوي",
	"such as":             "مثل",
	"according to":        "وفقا لـ",
	"based on":            "بناء على",
	"due to":              "بسبب",
	"in order to":         "من أجل",
	"as well as":          "وكذلك",
	"a lot of":            "الكثير من",
	"each other":          "بعضهم البعض",
	"right now":           "الآن",
}

var builtinWords = map[string]string{
	"hello":       "مرحبا",
	"hi":          "مرحبا",
	"world":       "العالم",
	"good":        "جيد",
	"bad":         "سيئ",
	"morning":     "صباح",
	"evening":     "مساء",
	"night":       "ليل",
	"day":         "يوم",
	"week":        "أسبوع",
	"month":       "شهر",
	"year":        "سنة",
	"time":        "وقت",
	"today":       "اليوم",
	"tomorrow":    "غدا",
	"yesterday":   "أمس",
	"yes":         "نعم",
	"no":          "لا",
	"please":      "من فضلك",
	"thanks":      "شكرا",
	"welcome":     "أهلا",
	"goodbye":     "وداعا",
	"man":         "رجل",
	"woman":       "امرأة",
	"child":       "طفل",
	"people":      "ناس",
	"friend":      "صديق",
	"family":      "عائلة",
	"house":       "منزل",
	"home":        "بيت",
	"school":      "مدرسة",
	"university":  "جامعة",
	"book":        "كتاب",
	"page":        "صفحة",
	"word":        "كلمة",
	"sentence":    "جملة",
	"language":    "لغة",
	"english":     "الإنجليزية",
	"arabic":      "العربية",
	"translation": "ترجمة",
	"document":    "مستند",
	"text":        "نص",
	"line":        "سطر",
	"number":      "رقم",
	"letter":      "حرف",
	"question":    "سؤال",
	"answer":      "جواب",
	"problem":     "مشكلة",
	"solution":    "حل",
	"example":     "مثال",
	"chapter":     "فصل",
	"section":     "قسم",
	"title":       "عنوان",
	"name":        "اسم",
	"work":        "عمل",
	"job":         "وظيفة",
	"money":       "مال",
	"water":       "ماء",
	"food":        "طعام",
	"coffee":      "قهوة",
	"tea":         "شاي",
	"city":        "مدينة",
	"country":     "بلد",
	"street":      "شارع",
	"car":         "سيارة",
	"road":        "طريق",
	"door":        "باب",
	"window":      "نافذة",
	"computer":    "حاسوب",
	"phone":       "هاتف",
	"internet":    "إنترنت",
	"science":     "علم",
	"math":        "رياضيات",
	"mathematics": "رياضيات",
	"physics":     "فيزياء",
	"chemistry":   "كيمياء",
	"history":     "تاريخ",
	"geography":   "جغرافيا",
	"teacher":     "معلم",
	"student":     "طالب",
	"doctor":      "طبيب",
	"engineer":    "مهندس",
	"big":         "كبير",
	"small":       "صغير",
	"new":         "جديد",
	"old":         "قديم",
	"long":        "طويل",
	"short":       "قصير",
	"fast":        "سريع",
	"slow":        "بطيء",
	"easy":        "سهل",
	"difficult":   "صعب",
	"hard":        "صعب",
	"important":   "مهم",
	"beautiful":   "جميل",
	"happy":       "سعيد",
	"sad":         "حزين",
	"hot":         "حار",
	"cold":        "بارد",
	"open":        "مفتوح",
	"closed":      "مغلق",
	"first":       "أول",
	"last":        "أخير",
	"next":        "التالي",
	"here":        "هنا",
	"there":       "هناك",
	"now":         "الآن",
	"later":       "لاحقا",
	"always":      "دائما",
	"never":       "أبدا",
	"sometimes":   "أحيانا",
	"very":        "جدا",
	"many":        "كثير",
	"few":         "قليل",
	"all":         "كل",
	"some":        "بعض",
	"and":         "و",
	"or":          "أو",
	"but":         "لكن",
	"with":        "مع",
	"without":     "بدون",
	"from":        "من",
	"to":          "إلى",
	"in":          "في",
	"on":          "على",
	"under":       "تحت",
	"before":      "قبل",
	"after":       "بعد",
	"between":     "بين",
	"one":         "واحد",
	"two":         "اثنان",
	"three":       "ثلاثة",
	"four":        "أربعة",
	"five":        "خمسة",
	"six":         "ستة",
	"seven":       "سبعة",
	"eight":       "ثمانية",
	"nine":        "تسعة",
	"ten":         "عشرة",
	"hundred":     "مئة",
	"thousand":    "ألف",
	"read":        "يقرأ",
	"write":       "يكتب",
	"speak":       "يتكلم",
	"listen":      "يستمع",
	"learn":       "يتعلم",
	"teach":       "يعلم",
	"understand":  "يفهم",
	"know":        "يعرف",
	"think":       "يفكر",
	"want":        "يريد",
	"need":        "يحتاج",
	"help":        "مساعدة",
	"go":          "يذهب",
	"come":        "يأتي",
	"see":         "يرى",
	"eat":         "يأكل",
	"drink":       "يشرب",
	"sleep":       "ينام",
	"love":        "حب",
	"life":        "حياة",
	"peace":       "سلام",
}
